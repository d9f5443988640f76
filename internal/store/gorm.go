package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentRow is the gorm model backing every collection. Collections are
// partitions of a single jsonb table rather than separate tables, so new
// collections need no migration.
type DocumentRow struct {
	Collection string `gorm:"primaryKey;size:64"`
	ID         string `gorm:"primaryKey;size:64"`
	Data       []byte `gorm:"type:jsonb"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName overrides the gorm table name
func (DocumentRow) TableName() string {
	return "documents"
}

type GormStore struct {
	db    *gorm.DB
	idGen IDGenerator
}

// NewGormStore creates a postgres-backed document store. A nil idGen falls
// back to random uuids.
func NewGormStore(db *gorm.DB, idGen IDGenerator) *GormStore {
	if idGen == nil {
		idGen = func() string { return uuid.NewString() }
	}
	return &GormStore{db: db, idGen: idGen}
}

func (s *GormStore) AddDocument(ctx context.Context, collection string, data any) (string, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	row := DocumentRow{
		Collection: collection,
		ID:         s.idGen(),
		Data:       body,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", err
	}
	return row.ID, nil
}

func (s *GormStore) GetDocument(ctx context.Context, collection, id string) (*Document, error) {
	var row DocumentRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &Document{ID: row.ID, Data: row.Data}, nil
}

func (s *GormStore) GetDocuments(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	query, err := s.filtered(ctx, collection, filters)
	if err != nil {
		return nil, err
	}

	var rows []DocumentRow
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	documents := make([]Document, 0, len(rows))
	for _, row := range rows {
		documents = append(documents, Document{ID: row.ID, Data: row.Data})
	}
	return documents, nil
}

func (s *GormStore) UpdateDocument(ctx context.Context, collection, id string, partial map[string]any) error {
	patch, err := json.Marshal(partial)
	if err != nil {
		return err
	}

	// jsonb shallow merge, same semantics as a document-store partial update
	result := s.db.WithContext(ctx).Model(&DocumentRow{}).
		Where("collection = ? AND id = ?", collection, id).
		Updates(map[string]any{
			"data":       gorm.Expr("data || ?::jsonb", string(patch)),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteDocument(ctx context.Context, collection, id string) error {
	return s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&DocumentRow{}).Error
}

func (s *GormStore) CountDocuments(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	query, err := s.filtered(ctx, collection, filters)
	if err != nil {
		return 0, err
	}

	var count int64
	err = query.Count(&count).Error
	return count, err
}

func (s *GormStore) filtered(ctx context.Context, collection string, filters []Filter) (*gorm.DB, error) {
	query := s.db.WithContext(ctx).Model(&DocumentRow{}).Where("collection = ?", collection)
	for _, f := range filters {
		if f.Op != "==" {
			return nil, fmt.Errorf("unsupported filter operator %q", f.Op)
		}
		query = query.Where("data ->> ? = ?", f.Field, fmt.Sprint(f.Value))
	}
	return query, nil
}
