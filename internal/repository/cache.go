package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/shenikar/civic_issue_tracker/internal/service"
)

// IssueCache карточки заявок в Redis; общий для обоих хранилищ
type IssueCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewIssueCache(redisClient *redis.Client, ttl time.Duration) service.IssueCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &IssueCache{redisClient: redisClient, ttl: ttl}
}

func issueKey(id uuid.UUID) string {
	return fmt.Sprintf("issue:%s", id.String())
}

// GetIssueFromCache пытается получить заявку из Redis; промах - (nil, nil)
func (c *IssueCache) GetIssueFromCache(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	val, err := c.redisClient.Get(ctx, issueKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get issue from cache: %w", err)
	}

	issue := &models.Issue{}
	if err := json.Unmarshal(val, issue); err != nil {
		return nil, fmt.Errorf("failed to unmarshal issue from cache: %w", err)
	}
	return issue, nil
}

// SetIssueCache сохраняет заявку в Redis
func (c *IssueCache) SetIssueCache(ctx context.Context, issue *models.Issue) error {
	val, err := json.Marshal(issue)
	if err != nil {
		return fmt.Errorf("failed to marshal issue for cache: %w", err)
	}
	if err := c.redisClient.Set(ctx, issueKey(issue.ID), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set issue in cache: %w", err)
	}
	return nil
}

// InvalidateIssueCache удаляет заявку из кеша
func (c *IssueCache) InvalidateIssueCache(ctx context.Context, id uuid.UUID) error {
	if err := c.redisClient.Del(ctx, issueKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate issue cache: %w", err)
	}
	return nil
}
