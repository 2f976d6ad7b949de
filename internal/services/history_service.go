package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/justsurfingit/cover-letter-studio/internal/models"
)

// EventDocumentGenerated is the Redis channel announcing successful submissions.
const EventDocumentGenerated = "EVENT_DOCUMENT_GENERATED"

// HistoryService writes the submission log. Both backends are optional: with no
// database and no Redis client every call is a no-op.
type HistoryService struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHistoryService(db *gorm.DB, rdb *redis.Client) *HistoryService {
	return &HistoryService{DB: db, Redis: rdb}
}

// Record stores rec and, for successful submissions, publishes an event.
// Failures are logged and never reach the user.
func (s *HistoryService) Record(ctx context.Context, rec *models.SubmissionRecord) {
	if s == nil {
		return
	}
	if s.DB != nil {
		if err := s.DB.WithContext(ctx).Create(rec).Error; err != nil {
			slog.Warn("record submission failed", "session", rec.SessionID, "err", err)
		}
	}
	if s.Redis != nil && rec.Outcome == models.OutcomeSucceeded {
		event, _ := json.Marshal(map[string]any{
			"type":      EventDocumentGenerated,
			"sessionId": rec.SessionID,
			"variant":   rec.Variant,
			"bytes":     rec.DocumentBytes,
		})
		if err := s.Redis.Publish(ctx, EventDocumentGenerated, event).Err(); err != nil {
			slog.Warn("publish "+EventDocumentGenerated+" failed", "err", err)
		}
	}
}

// ListForSession returns the most recent records of one session, newest first.
func (s *HistoryService) ListForSession(ctx context.Context, sessionID string, limit int) ([]models.SubmissionRecord, error) {
	records := make([]models.SubmissionRecord, 0)
	if s == nil || s.DB == nil {
		return records, nil
	}
	err := s.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
