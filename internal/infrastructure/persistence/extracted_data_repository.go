package persistence

import (
	"context"
	"errors"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
	"github.com/StephaneWamba/InvoiceFlow/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormExtractedDataRepository implements ExtractedDataRepository using GORM
type GormExtractedDataRepository struct {
	db *gorm.DB
}

// NewGormExtractedDataRepository creates a new GormExtractedDataRepository
func NewGormExtractedDataRepository(db *gorm.DB) *GormExtractedDataRepository {
	return &GormExtractedDataRepository{db: db}
}

// FindByDocument finds the extracted data for a document
func (r *GormExtractedDataRepository) FindByDocument(ctx context.Context, documentID uuid.UUID) (*document.ExtractedData, error) {
	var data document.ExtractedData
	if err := r.db.WithContext(ctx).First(&data, "document_id = ?", documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &data, nil
}

// FindByDocuments finds extracted data for multiple documents at once
func (r *GormExtractedDataRepository) FindByDocuments(ctx context.Context, documentIDs []uuid.UUID) ([]document.ExtractedData, error) {
	if len(documentIDs) == 0 {
		return []document.ExtractedData{}, nil
	}

	var data []document.ExtractedData
	if err := r.db.WithContext(ctx).
		Where("document_id IN ?", documentIDs).
		Find(&data).Error; err != nil {
		return nil, err
	}
	return data, nil
}

// Save creates or replaces the extracted data for a document. A document has
// at most one extraction row, keyed by document_id.
func (r *GormExtractedDataRepository) Save(ctx context.Context, data *document.ExtractedData) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "document_id"}},
			UpdateAll: true,
		}).
		Create(data).Error
}

// DeleteByDocument deletes the extracted data for a document
func (r *GormExtractedDataRepository) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&document.ExtractedData{}, "document_id = ?", documentID).Error
}

// Ensure GormExtractedDataRepository implements ExtractedDataRepository
var _ document.ExtractedDataRepository = (*GormExtractedDataRepository)(nil)
