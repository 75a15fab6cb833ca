package settings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
)

// Repository persists per-shop automation settings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindByShop(ctx context.Context, shop string) (*models.AutoOrderSettings, error)
	Create(ctx context.Context, settings *models.AutoOrderSettings) (*models.AutoOrderSettings, error)
	Save(ctx context.Context, settings *models.AutoOrderSettings) (*models.AutoOrderSettings, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByShop(ctx context.Context, shop string) (*models.AutoOrderSettings, error) {
	var settings models.AutoOrderSettings
	err := r.db.WithContext(ctx).Where("shop = ?", shop).First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *repository) Create(ctx context.Context, settings *models.AutoOrderSettings) (*models.AutoOrderSettings, error) {
	if settings.ID == uuid.Nil {
		settings.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *repository) Save(ctx context.Context, settings *models.AutoOrderSettings) (*models.AutoOrderSettings, error) {
	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// IsNotFound reports whether the error is the store's missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
