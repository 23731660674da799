package cmd

import (
	"context"
	"fmt"
	"net/http"

	"checkout/api"
	apicart "checkout/api/cart"
	"checkout/api/health"
	apiorder "checkout/api/order"
	cartapp "checkout/application/cart"
	orderapp "checkout/application/order"
	"checkout/config"
	"checkout/domain/cart"
	orderdomain "checkout/domain/order"
	"checkout/domain/payment"
	"checkout/domain/settings"
	"checkout/domain/shared"
	userdomain "checkout/domain/user"
	paymentinfra "checkout/infrastructure/payment"
	"checkout/infrastructure/payment/noncestore"
	"checkout/infrastructure/persistence/mocks"
	"checkout/infrastructure/persistence/mysql"
	"checkout/infrastructure/persistence/retry"
	"checkout/pkg/auth"
	"checkout/pkg/logger"
	"checkout/pkg/metrics"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppBuilder wires the application from configuration. Tests replace the
// payment gateway with WithGateway.
type AppBuilder struct {
	cfg     *config.Config
	gateway payment.Gateway
}

func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

func (b *AppBuilder) WithGateway(gw payment.Gateway) *AppBuilder {
	b.gateway = gw
	return b
}

// repositories is one persistence backend, MySQL or in-memory.
type repositories struct {
	orders    orderdomain.Repository
	queries   orderdomain.QueryService
	carts     cart.Repository
	users     userdomain.Repository
	addresses userdomain.AddressRepository
	settings  settings.Repository
	uow       shared.UnitOfWorkFactory
}

func (b *AppBuilder) Build() (*App, error) {
	if err := logger.Init(&b.cfg.Log, b.cfg.App.Env); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env))

	app := &App{config: b.cfg}
	m := metrics.New("checkout")
	checks := map[string]health.Check{}

	var repos repositories
	switch b.cfg.Database.Type {
	case "mock":
		logger.Info("Using in-memory persistence layer")
		repos = mockRepositories()
	default:
		db, err := b.connectMySQL()
		if err != nil {
			return nil, err
		}
		app.db = db
		repos = mysqlRepositories(db, retry.FromAppConfig(b.cfg))
		checks["database"] = func(ctx context.Context) error { return mysql.Ping(ctx, db) }

		if b.cfg.Worker.Enabled {
			if err := b.attachOutboxWorker(app, db, m); err != nil {
				return nil, err
			}
		}
	}

	var nonces payment.NonceStore
	if b.cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     b.cfg.Redis.Addr,
			Password: b.cfg.Redis.Password,
			DB:       b.cfg.Redis.DB,
		})
		app.closers = append(app.closers, rdb.Close)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		nonces = noncestore.NewRedisStore(rdb)
		logger.Info("Payment signatures tracked in Redis", zap.String("addr", b.cfg.Redis.Addr))
	} else {
		nonces = noncestore.NewMemoryStore()
		logger.Warn("Redis disabled, payment signatures tracked in memory for this process only")
	}

	gateway := b.gateway
	if gateway == nil {
		gw, err := paymentinfra.New(b.cfg.Payment, nonces, m)
		if err != nil {
			return nil, fmt.Errorf("failed to create payment gateway: %w", err)
		}
		gateway = gw
	}

	tokens, err := auth.NewTokenManager(b.cfg.Auth)
	if err != nil {
		return nil, err
	}

	orderService := orderapp.NewApplicationService(orderapp.Dependencies{
		Orders:     repos.orders,
		Queries:    repos.queries,
		Carts:      repos.carts,
		Users:      repos.users,
		Addresses:  repos.addresses,
		Settings:   repos.settings,
		Gateway:    gateway,
		UoWFactory: repos.uow,
		Metrics:    m,
		Currency:   b.cfg.Payment.Currency,
		PerPage:    b.cfg.Paging.PerPage,
	})
	cartService := cartapp.NewApplicationService(repos.carts, b.cfg.Payment.Currency)

	router := api.NewRouter(b.cfg, tokens, m,
		health.NewController(b.cfg, checks),
		apiorder.NewController(orderService),
		apicart.NewController(cartService),
	)
	router.SetupRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}
	return app, nil
}

func (b *AppBuilder) connectMySQL() (*gorm.DB, error) {
	logger.Info("Using MySQL/GORM persistence layer")

	db, err := NewMySQLConfig(b.cfg).Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	if err := mysql.Ping(context.Background(), db); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	// Local databases are migrated on start; other environments use migrations.
	if b.cfg.IsDevelopment() {
		if err := mysql.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
	}
	return db, nil
}

// attachOutboxWorker runs the outbox relay inside the API process.
func (b *AppBuilder) attachOutboxWorker(app *App, db *gorm.DB, m *metrics.Metrics) error {
	publisher, closePublisher, err := NewEventPublisher(b.cfg)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	worker, err := mysql.NewOutboxWorker(
		mysql.NewOutboxRepository(db),
		publisher,
		m,
		b.cfg.Worker.PollInterval,
		b.cfg.Worker.BatchSize,
		b.cfg.Worker.MaxRetries,
	)
	if err != nil {
		_ = closePublisher()
		return fmt.Errorf("failed to create outbox worker: %w", err)
	}
	app.worker = worker
	app.closers = append(app.closers, closePublisher)
	return nil
}

func mysqlRepositories(db *gorm.DB, retryConfig retry.Config) repositories {
	orders := mysql.NewOrderRepository(db)
	return repositories{
		orders:    orders,
		queries:   mysql.NewOrderQueryService(orders),
		carts:     mysql.NewCartRepository(db),
		users:     mysql.NewUserRepository(db),
		addresses: mysql.NewAddressRepository(db),
		settings:  mysql.NewSettingsRepository(db),
		uow:       mysql.NewUnitOfWorkFactory(db, retryConfig),
	}
}

func mockRepositories() repositories {
	users := mocks.NewMockUserRepository()
	orders := mocks.NewMockOrderRepository(users)
	return repositories{
		orders:    orders,
		queries:   orders,
		carts:     mocks.NewMockCartRepository(),
		users:     users,
		addresses: users,
		settings:  mocks.NewMockSettingsRepository(),
		uow:       mocks.NewMockUnitOfWorkFactory(),
	}
}
