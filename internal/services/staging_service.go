package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/justsurfingit/cover-letter-studio/internal/models"
)

// DownloadPath is where staged documents are served from.
const DownloadPath = "/api/v1/downloads/"

// StagingStore holds generated documents behind one-shot tokens. Take must
// remove the entry so a handle is never served twice.
type StagingStore interface {
	Put(ctx context.Context, token string, doc *models.Document, ttl time.Duration) error
	Take(ctx context.Context, token string) (*models.Document, error)
}

// StagingService hands out download handles for generated documents. A handle
// is released when it is taken or when its TTL runs out, whichever is first.
type StagingService struct {
	store StagingStore
	ttl   time.Duration
}

func NewStagingService(store StagingStore, ttl time.Duration) *StagingService {
	return &StagingService{store: store, ttl: ttl}
}

// Stage stores doc and returns its token.
func (s *StagingService) Stage(ctx context.Context, doc *models.Document) (string, error) {
	token := uuid.NewString()
	if err := s.store.Put(ctx, token, doc, s.ttl); err != nil {
		return "", fmt.Errorf("stage %s: %w", doc.Filename, err)
	}
	return token, nil
}

// Take returns the document and releases the handle.
func (s *StagingService) Take(ctx context.Context, token string) (*models.Document, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, ErrDownloadNotFound
	}
	return s.store.Take(ctx, token)
}

// URL is the link the browser follows to save the document.
func (s *StagingService) URL(token string) string { return DownloadPath + token }

// StagingDownloader is the browser-side Downloader: it stages the document and
// remembers the handle so the handler can hand the link back.
type StagingDownloader struct {
	staging  *StagingService
	Token    string
	Filename string
}

func NewStagingDownloader(staging *StagingService) *StagingDownloader {
	return &StagingDownloader{staging: staging}
}

func (d *StagingDownloader) Download(ctx context.Context, doc *models.Document) error {
	token, err := d.staging.Stage(ctx, doc)
	if err != nil {
		return err
	}
	d.Token = token
	d.Filename = doc.Filename
	return nil
}

// ─── In-memory store ─────────────────────────────────────────────────────────

type stagedDocument struct {
	doc       *models.Document
	expiresAt time.Time
}

// MemoryStagingStore keeps staged documents in process. Expired entries are
// unreachable through Take and removed by Sweep.
type MemoryStagingStore struct {
	mu    sync.Mutex
	items map[string]stagedDocument
	now   func() time.Time
}

func NewMemoryStagingStore() *MemoryStagingStore {
	return &MemoryStagingStore{items: make(map[string]stagedDocument), now: time.Now}
}

func (m *MemoryStagingStore) Put(_ context.Context, token string, doc *models.Document, ttl time.Duration) error {
	m.mu.Lock()
	m.items[token] = stagedDocument{doc: doc, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStagingStore) Take(_ context.Context, token string) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[token]
	if !ok {
		return nil, ErrDownloadNotFound
	}
	delete(m.items, token)
	if !m.now().Before(item.expiresAt) {
		return nil, ErrDownloadNotFound
	}
	return item.doc, nil
}

// Sweep removes expired entries.
func (m *MemoryStagingStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for token, item := range m.items {
		if now.Before(item.expiresAt) {
			continue
		}
		delete(m.items, token)
		removed++
	}
	return removed
}

func (m *MemoryStagingStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// SetClock replaces the time source. Used by tests.
func (m *MemoryStagingStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

// ─── Redis store ─────────────────────────────────────────────────────────────

const stagingKeyPrefix = "studio:download:"

// RedisStagingStore keeps staged documents in Redis hashes with a TTL, so any
// replica behind a load balancer can serve the download.
type RedisStagingStore struct {
	rdb *redis.Client
}

func NewRedisStagingStore(rdb *redis.Client) *RedisStagingStore {
	return &RedisStagingStore{rdb: rdb}
}

func (r *RedisStagingStore) Put(ctx context.Context, token string, doc *models.Document, ttl time.Duration) error {
	key := stagingKeyPrefix + token
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"filename", doc.Filename,
			"contentType", doc.ContentType,
			"data", doc.Data,
		)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis stage: %w", err)
	}
	return nil
}

func (r *RedisStagingStore) Take(ctx context.Context, token string) (*models.Document, error) {
	key := stagingKeyPrefix + token

	var fields *redis.MapStringStringCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		fields = pipe.HGetAll(ctx, key)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis take: %w", err)
	}

	m := fields.Val()
	if len(m) == 0 {
		return nil, ErrDownloadNotFound
	}
	return &models.Document{
		Filename:    m["filename"],
		ContentType: m["contentType"],
		Data:        []byte(m["data"]),
	}, nil
}
