package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/complaint-portal/internal/domain"
)

const (
	complaintListKey = "complaints:list"
	complaintListTTL = 30 * time.Second
)

// ComplaintCache caches the shared triage listing. A miss or a cache error
// is never fatal; callers fall back to the database.
type ComplaintCache interface {
	GetList(ctx context.Context) ([]domain.Complaint, bool)
	SetList(ctx context.Context, complaints []domain.Complaint)
	Invalidate(ctx context.Context)
}

type redisComplaintCache struct {
	client *redis.Client
}

// NewComplaintCache returns a Redis-backed cache.
func NewComplaintCache(client *redis.Client) ComplaintCache {
	return &redisComplaintCache{client: client}
}

func (c *redisComplaintCache) GetList(ctx context.Context) ([]domain.Complaint, bool) {
	if c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, complaintListKey).Bytes()
	if err != nil {
		return nil, false
	}
	var complaints []domain.Complaint
	if err := json.Unmarshal(payload, &complaints); err != nil {
		return nil, false
	}
	return complaints, true
}

func (c *redisComplaintCache) SetList(ctx context.Context, complaints []domain.Complaint) {
	if c.client == nil {
		return
	}
	payload, err := json.Marshal(complaints)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, complaintListKey, payload, complaintListTTL).Err()
}

func (c *redisComplaintCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	_ = c.client.Del(ctx, complaintListKey).Err()
}
