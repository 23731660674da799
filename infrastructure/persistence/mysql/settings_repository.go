package mysql

import (
	"context"

	"checkout/domain/settings"
	"checkout/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get reads the first settings row, or settings.Default when there is none.
func (r *SettingsRepository) Get(ctx context.Context) (settings.Settings, error) {
	var rows []po.SettingsPO
	if err := r.db.WithContext(ctx).Order("id ASC").Limit(1).Find(&rows).Error; err != nil {
		return settings.Settings{}, err
	}
	if len(rows) == 0 {
		return settings.Default(), nil
	}
	return rows[0].ToDomain(), nil
}

var _ settings.Repository = (*SettingsRepository)(nil)
