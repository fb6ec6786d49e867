package repository

import (
	"context"
	"time"

	"github.com/dangerclosesec/transpiler/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TranslationRepositoryIface is the storage used by the translation service
type TranslationRepositoryIface interface {
	Create(ctx context.Context, t *model.Translation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Translation, error)
	Query(ctx context.Context, params QueryParams) ([]model.Translation, int64, error)
}

// TranslationRepository handles database operations for translations
type TranslationRepository struct {
	db *gorm.DB
}

// NewTranslationRepository creates a new TranslationRepository
func NewTranslationRepository(db *gorm.DB) *TranslationRepository {
	return &TranslationRepository{
		db: db,
	}
}

// Migrate creates or updates the translations table
func (r *TranslationRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&model.Translation{}); err != nil {
		return wrapError("migrate translations", err)
	}
	return nil
}

// Create inserts a new translation record
func (r *TranslationRepository) Create(ctx context.Context, t *model.Translation) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	result := r.db.WithContext(ctx).Create(t)
	if result.Error != nil {
		return wrapError("create translation", result.Error)
	}

	return nil
}

// FindByID retrieves a translation by its ID
func (r *TranslationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Translation, error) {
	var t model.Translation
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&t)
	if result.Error != nil {
		return nil, wrapError("find translation", result.Error)
	}

	return &t, nil
}

// Query retrieves translations based on the provided query parameters
func (r *TranslationRepository) Query(ctx context.Context, params QueryParams) ([]model.Translation, int64, error) {
	var translations []model.Translation
	var count int64

	query := r.db.WithContext(ctx).Model(&model.Translation{})

	// Apply filters
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.ErrorStage != "" {
		query = query.Where("error_stage = ?", params.ErrorStage)
	}
	if params.SourceName != "" {
		query = query.Where("source_name = ?", params.SourceName)
	}
	if params.SourceDigest != "" {
		query = query.Where("source_digest = ?", params.SourceDigest)
	}
	if !params.StartTime.IsZero() {
		query = query.Where("created_at >= ?", params.StartTime)
	}
	if !params.EndTime.IsZero() {
		query = query.Where("created_at <= ?", params.EndTime)
	}

	// Get total count for pagination
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, wrapError("count translations", err)
	}

	query = query.Limit(params.limit())
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	result := query.Order("created_at DESC").Find(&translations)
	if result.Error != nil {
		return nil, 0, wrapError("query translations", result.Error)
	}

	return translations, count, nil
}
