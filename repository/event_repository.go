package repository

import (
	"context"
	"sync"
	"time"

	"github.com/blossom2016/stripeConnect/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventRepository remembers which webhook events were already dispatched.
type EventRepository interface {
	// MarkProcessed records eventID and reports whether this was the first time.
	MarkProcessed(ctx context.Context, eventID, eventType string) (first bool, err error)
}

type memoryEventRepo struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

func NewMemoryEventRepo() EventRepository {
	return &memoryEventRepo{seen: make(map[string]time.Time)}
}

func (r *memoryEventRepo) MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[eventID]; ok {
		return false, nil
	}
	r.seen[eventID] = time.Now()
	return true, nil
}

type redisEventRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisEventRepo keeps processed ids for ttl; Stripe stops redelivering after three days.
func NewRedisEventRepo(client *redis.Client, ttl time.Duration) EventRepository {
	return &redisEventRepo{client: client, ttl: ttl}
}

func (r *redisEventRepo) getKey(eventID string) string {
	return "webhook:event:" + eventID
}

func (r *redisEventRepo) MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error) {
	return r.client.SetNX(ctx, r.getKey(eventID), eventType, r.ttl).Result()
}

type gormEventRepo struct {
	db *gorm.DB
}

func NewGormEventRepo(db *gorm.DB) EventRepository {
	return &gormEventRepo{db: db}
}

func (r *gormEventRepo) MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error) {
	e := models.ProcessedEvent{EventID: eventID, EventType: eventType, ProcessedAt: time.Now().UTC()}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&e)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
