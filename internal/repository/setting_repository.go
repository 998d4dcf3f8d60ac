package repository

import (
	"context"

	"picvote-server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UpdateSettingItem struct {
	Key   string
	Value string
}

type SettingStore interface {
	InitializeDefaults(ctx context.Context, defaults []model.Setting) error
	FindByKey(ctx context.Context, key string) (*model.Setting, error)
	FindAll(ctx context.Context) ([]model.Setting, error)
	UpdateSettings(ctx context.Context, items []UpdateSettingItem) error
}

type SettingRepository struct {
	db *gorm.DB
}

// InitializeDefaults 插入缺失的配置项，已存在的只同步描述，不覆盖值
func (r *SettingRepository) InitializeDefaults(ctx context.Context, defaults []model.Setting) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, def := range defaults {
			var count int64
			if err := tx.Model(&model.Setting{}).Where(&model.Setting{Key: def.Key}).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				item := def
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Model(&model.Setting{}).Where(&model.Setting{Key: def.Key}).Update("desc", def.Desc).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SettingRepository) FindByKey(ctx context.Context, key string) (*model.Setting, error) {
	var setting model.Setting
	if err := r.db.WithContext(ctx).Where(&model.Setting{Key: key}).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *SettingRepository) FindAll(ctx context.Context) ([]model.Setting, error) {
	var settings []model.Setting
	if err := r.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *SettingRepository) UpdateSettings(ctx context.Context, items []UpdateSettingItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := upsertSettingValue(tx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertSettingValue(tx *gorm.DB, item UpdateSettingItem) error {
	setting := model.Setting{Key: item.Key, Value: item.Value}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&setting).Error
}
