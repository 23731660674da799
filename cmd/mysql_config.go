package cmd

import (
	"checkout/config"
	"checkout/domain/shared"
	"checkout/infrastructure/messaging/kafka"
	"checkout/infrastructure/persistence/mysql"
)

func NewMySQLConfig(cfg *config.Config) *mysql.Config {
	return &mysql.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		LogLevel:        cfg.Database.LogLevel,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
}

// NewEventPublisher returns the Kafka publisher when Kafka is enabled and a
// logging publisher otherwise. The returned close function is never nil.
func NewEventPublisher(cfg *config.Config) (shared.EventPublisher, func() error, error) {
	if !cfg.Kafka.Enabled {
		return &mysql.LoggingPublisher{}, func() error { return nil }, nil
	}
	publisher, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, nil, err
	}
	return publisher, publisher.Close, nil
}
