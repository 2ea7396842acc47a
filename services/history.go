package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/MansiJagta/echo-forge-create/models"
	"github.com/MansiJagta/echo-forge-create/pkg/supabase"
)

// HistoryStore persists audio-generation records. The orchestrator and
// controllers only see this interface, never a backend's query grammar.
type HistoryStore interface {
	Create(ctx context.Context, record *models.AudioRecord) (string, error)
	// List returns the user's records newest first.
	List(ctx context.Context, userID string, limit, offset int) ([]models.AudioRecord, error)
	// Delete removes the record only when it belongs to userID. A record
	// owned by someone else is reported as models.ErrNotFound, identical
	// to a truly absent id.
	Delete(ctx context.Context, recordID, userID string) error
}

// SupabaseHistoryStore keeps records in a remote PostgREST table.
type SupabaseHistoryStore struct {
	Backend *supabase.Client
	Table   string
}

func (s *SupabaseHistoryStore) Create(ctx context.Context, record *models.AudioRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if err := s.Backend.Insert(ctx, s.Table, record); err != nil {
		return "", fmt.Errorf("creating history record: %w", err)
	}
	return record.ID, nil
}

func (s *SupabaseHistoryStore) List(ctx context.Context, userID string, limit, offset int) ([]models.AudioRecord, error) {
	filters := url.Values{}
	filters.Set("user_id", "eq."+userID)
	filters.Set("order", "created_at.desc")
	filters.Set("limit", strconv.Itoa(limit))
	filters.Set("offset", strconv.Itoa(offset))

	records := []models.AudioRecord{}
	if err := s.Backend.Select(ctx, s.Table, filters, &records); err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return records, nil
}

func (s *SupabaseHistoryStore) Delete(ctx context.Context, recordID, userID string) error {
	filters := url.Values{}
	filters.Set("id", "eq."+recordID)
	filters.Set("user_id", "eq."+userID)

	deleted, err := s.Backend.Delete(ctx, s.Table, filters)
	if err != nil {
		return fmt.Errorf("deleting history record: %w", err)
	}
	if deleted == 0 {
		return models.ErrNotFound
	}
	return nil
}
