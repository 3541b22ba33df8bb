package sqlite

import (
	"context"
	"errors"
	"strings"

	"buddyfarm/internal/store/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// settingsRepo implements the SettingsRepository interface.
type settingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) *settingsRepo {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Find(ctx context.Context, key string) (*model.SettingsModel, error) {
	var rec model.SettingsModel
	err := r.db.WithContext(ctx).Where("storage_key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Save inserts or replaces the row for rec.Key; created_at is kept from the first insert.
func (r *settingsRepo) Save(ctx context.Context, rec *model.SettingsModel) error {
	if rec == nil {
		return errors.New("settings record cannot be nil")
	}
	if strings.TrimSpace(rec.Key) == "" {
		return errors.New("settings key cannot be empty")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value_json", "updated_at"}),
	}).Create(rec).Error
}

type changeRepo struct {
	db *gorm.DB
}

func NewChangeRepo(db *gorm.DB) *changeRepo {
	return &changeRepo{db: db}
}

func (r *changeRepo) Insert(ctx context.Context, changes []model.SettingsChangeModel) error {
	if len(changes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&changes).Error
}

// ListRecent returns the newest changes first.
func (r *changeRepo) ListRecent(ctx context.Context, key string, limit int) ([]model.SettingsChangeModel, error) {
	var out []model.SettingsChangeModel
	q := r.db.WithContext(ctx).Where("storage_key = ?", key).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
