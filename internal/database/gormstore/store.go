// Package gormstore provides PostgreSQL-backed journal storage through gorm.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"tangled.org/arabica.social/brewjournal/internal/database"
)

// Document is one stored journal record
type Document struct {
	Collection string `gorm:"primaryKey;size:64"`
	ID         string `gorm:"primaryKey;size:64"`
	Data       string `gorm:"type:text;not null"`
	UpdatedAt  time.Time
}

// TableName pins the table name regardless of gorm naming strategy.
func (Document) TableName() string {
	return "documents"
}

// Store implements database.Documents on a gorm connection.
type Store struct {
	db *gorm.DB
}

// Ensure Store implements the interface at compile time.
var _ database.Documents = (*Store)(nil)

// Open connects to PostgreSQL using dsn and migrates the documents table.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return New(db)
}

// New wraps an existing gorm connection and migrates the documents table.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Put(ctx context.Context, collection, id string, data []byte) error {
	doc := Document{
		Collection: collection,
		ID:         id,
		Data:       string(data),
		UpdatedAt:  time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, collection, id string) ([]byte, error) {
	var doc Document
	err := s.db.WithContext(ctx).
		Select("data").
		Where("collection = ? AND id = ?", collection, id).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return []byte(doc.Data), nil
}

func (s *Store) List(ctx context.Context, collection string) ([][]byte, error) {
	var docs []Document
	if err := s.db.WithContext(ctx).Select("data").Where("collection = ?", collection).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	out := make([][]byte, 0, len(docs))
	for _, doc := range docs {
		out = append(out, []byte(doc.Data))
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&Document{})
	if res.Error != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Document{}).Where("collection = ?", collection).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return int(n), nil
}
