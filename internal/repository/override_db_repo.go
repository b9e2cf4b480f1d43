package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/emojitopng/emojitopng-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBOverrideRepository keeps the override as one row of dataset_overrides
type DBOverrideRepository struct {
	db   *gorm.DB
	slot string
}

// NewDBOverrideRepository creates a new DBOverrideRepository
func NewDBOverrideRepository(db *gorm.DB, slot string) *DBOverrideRepository {
	if slot == "" {
		slot = domain.DefaultOverrideSlot
	}
	return &DBOverrideRepository{db: db, slot: slot}
}

// AutoMigrate creates the dataset_overrides table
func (r *DBOverrideRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.DatasetOverride{})
}

// Get loads the slot row
func (r *DBOverrideRepository) Get(ctx context.Context) (string, bool, error) {
	var row domain.DatasetOverride
	err := r.db.WithContext(ctx).Where("slot = ?", r.slot).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load override: %w", err)
	}
	return row.Content, true, nil
}

// Put upserts the slot row
func (r *DBOverrideRepository) Put(ctx context.Context, raw string) error {
	sum := sha256.Sum256([]byte(raw))
	row := &domain.DatasetOverride{
		Slot:      r.slot,
		Content:   raw,
		Size:      len(raw),
		Checksum:  hex.EncodeToString(sum[:]),
		UpdatedAt: time.Now(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "size", "checksum", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("save override: %w", err)
	}
	return nil
}

// Delete removes the slot row
func (r *DBOverrideRepository) Delete(ctx context.Context) error {
	err := r.db.WithContext(ctx).Where("slot = ?", r.slot).Delete(&domain.DatasetOverride{}).Error
	if err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	return nil
}
