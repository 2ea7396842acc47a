package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MansiJagta/echo-forge-create/models"
)

// PostgresHistoryStore is the self-hosted alternative to the managed
// backend, selected with HISTORY_BACKEND=postgres.
type PostgresHistoryStore struct {
	DB *gorm.DB
}

func (s *PostgresHistoryStore) Create(ctx context.Context, record *models.AudioRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if err := s.DB.WithContext(ctx).Create(record).Error; err != nil {
		return "", fmt.Errorf("creating history record: %w", err)
	}
	return record.ID, nil
}

func (s *PostgresHistoryStore) List(ctx context.Context, userID string, limit, offset int) ([]models.AudioRecord, error) {
	records := []models.AudioRecord{}
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return records, nil
}

func (s *PostgresHistoryStore) Delete(ctx context.Context, recordID, userID string) error {
	// Ownership is part of the predicate so a foreign record and a missing
	// one are indistinguishable to the caller.
	result := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", recordID, userID).
		Delete(&models.AudioRecord{})
	if result.Error != nil {
		return fmt.Errorf("deleting history record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
