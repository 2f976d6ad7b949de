package services_test

import (
	"context"
	"encoding/json"
	"os"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/justsurfingit/cover-letter-studio/internal/database"
	"github.com/justsurfingit/cover-letter-studio/internal/models"
	"github.com/justsurfingit/cover-letter-studio/internal/services"
)

func TestHistoryService_NoBackends(t *testing.T) {
	h := services.NewHistoryService(nil, nil)
	h.Record(context.Background(), &models.SubmissionRecord{SessionID: "s", Outcome: models.OutcomeSucceeded})

	recs, err := h.ListForSession(context.Background(), "s", 10)
	if err != nil || len(recs) != 0 {
		t.Errorf("ListForSession = %v, %v; want empty", recs, err)
	}

	var nilHistory *services.HistoryService
	nilHistory.Record(context.Background(), &models.SubmissionRecord{})
}

func TestHistoryService_Postgres(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := database.Connect(dsn)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	ctx := context.Background()
	mine, other := uuid.NewString(), uuid.NewString()
	t.Cleanup(func() {
		db.Where("session_id IN ?", []string{mine, other}).Delete(&models.SubmissionRecord{})
	})

	h := services.NewHistoryService(db, nil)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		h.Record(ctx, &models.SubmissionRecord{
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
			SessionID:     mine,
			Variant:       string(models.VariantCoverLetter),
			Outcome:       models.OutcomeSucceeded,
			StatusCode:    200,
			DocumentBytes: i,
		})
	}
	h.Record(ctx, &models.SubmissionRecord{CreatedAt: base.Add(time.Hour), SessionID: other, Outcome: models.OutcomeFailed})

	recs, err := h.ListForSession(ctx, mine, 20)
	if err != nil {
		t.Fatalf("ListForSession: %v", err)
	}
	if len(recs) != 20 {
		t.Fatalf("got %d records, want the limit of 20", len(recs))
	}
	for _, r := range recs {
		if r.SessionID != mine {
			t.Fatalf("record of session %q leaked into the listing", r.SessionID)
		}
	}
	if !sort.SliceIsSorted(recs, func(i, j int) bool { return recs[i].CreatedAt.After(recs[j].CreatedAt) }) {
		t.Error("records are not newest first")
	}
	if recs[0].DocumentBytes != 24 || recs[19].DocumentBytes != 5 {
		t.Errorf("window = [%d..%d], want the 20 newest [24..5]", recs[0].DocumentBytes, recs[19].DocumentBytes)
	}
}

func TestHistoryService_PublishesEvent(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx := context.Background()
	rdb, err := database.NewRedisClient(ctx, url)
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	defer rdb.Close()

	sub := rdb.Subscribe(ctx, services.EventDocumentGenerated)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	msgs := sub.Channel()

	session := uuid.NewString()
	h := services.NewHistoryService(nil, rdb)
	h.Record(ctx, &models.SubmissionRecord{SessionID: session, Variant: "resume", Outcome: models.OutcomeFailed, Error: "boom"})
	h.Record(ctx, &models.SubmissionRecord{SessionID: session, Variant: "cover-letter", Outcome: models.OutcomeSucceeded, DocumentBytes: 42})

	var msg *redis.Message
	for msg == nil {
		select {
		case m := <-msgs:
			var peek map[string]any
			_ = json.Unmarshal([]byte(m.Payload), &peek)
			if peek["sessionId"] == session {
				msg = m
			}
		case <-time.After(5 * time.Second):
			t.Fatal("no event received")
		}
	}

	var event map[string]any
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		t.Fatalf("event is not JSON: %v", err)
	}
	keys := make([]string, 0, len(event))
	for k := range event {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if want := []string{"bytes", "sessionId", "type", "variant"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("event keys = %v, want only metadata %v", keys, want)
	}
	if event["variant"] != "cover-letter" || event["bytes"] != float64(42) {
		t.Errorf("first event for the session = %v, want the successful submission", event)
	}
}
