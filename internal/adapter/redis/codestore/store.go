package codestore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"

	"gitlab.com/learnhub.net/internal/core/ports/primary"
	"gitlab.com/learnhub.net/internal/core/ports/secondary"
	"gitlab.com/learnhub.net/internal/domain"
	"gitlab.com/learnhub.net/internal/static/errs"
)

var _ secondary.SavedCodeRepository = (*CodeRepository)(nil)

// CodeRepository keeps each owner's snippets in one hash, field = snippet id.
type CodeRepository struct {
	redisClient *redis.Client
	keyPrefix   string
	logger      primary.Logger
}

// NewCodeRepository creates a new Redis saved-code repository
func NewCodeRepository(redisClient *redis.Client, keyPrefix string, logger primary.Logger) *CodeRepository {
	return &CodeRepository{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
		logger:      logger,
	}
}

func (r *CodeRepository) ownerKey(owner string) string {
	return fmt.Sprintf("%s:codes:%s", r.keyPrefix, owner)
}

// Save stores or replaces a snippet
func (r *CodeRepository) Save(ctx context.Context, owner string, code *domain.SavedCode) error {
	codeJSON, err := json.Marshal(code)
	if err != nil {
		r.logger.Error("Failed to marshal saved code", "error", err)
		return fmt.Errorf("failed to marshal saved code: %w", err)
	}

	if err := r.redisClient.HSet(ctx, r.ownerKey(owner), code.ID, codeJSON).Err(); err != nil {
		r.logger.Error("Failed to save code", "owner", owner, "codeId", code.ID, "error", err)
		return fmt.Errorf("failed to save code: %w", err)
	}
	return nil
}

// Get retrieves a snippet, nil when missing
func (r *CodeRepository) Get(ctx context.Context, owner, id string) (*domain.SavedCode, error) {
	codeJSON, err := r.redisClient.HGet(ctx, r.ownerKey(owner), id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		r.logger.Error("Failed to get code", "owner", owner, "codeId", id, "error", err)
		return nil, fmt.Errorf("failed to get code: %w", err)
	}

	var code domain.SavedCode
	if err := json.Unmarshal(codeJSON, &code); err != nil {
		r.logger.Error("Failed to unmarshal saved code", "error", err)
		return nil, fmt.Errorf("failed to unmarshal saved code: %w", err)
	}
	return &code, nil
}

// List returns the owner's snippets, most recently saved first
func (r *CodeRepository) List(ctx context.Context, owner string) ([]*domain.SavedCode, error) {
	entries, err := r.redisClient.HGetAll(ctx, r.ownerKey(owner)).Result()
	if err != nil {
		r.logger.Error("Failed to list codes", "owner", owner, "error", err)
		return nil, fmt.Errorf("failed to list codes: %w", err)
	}

	codes := make([]*domain.SavedCode, 0, len(entries))
	for id, data := range entries {
		var code domain.SavedCode
		if err := json.Unmarshal([]byte(data), &code); err != nil {
			r.logger.Warn("Skipping unreadable saved code", "owner", owner, "codeId", id, "error", err)
			continue
		}
		codes = append(codes, &code)
	}

	sort.Slice(codes, func(i, j int) bool {
		return codes[i].SavedAt.After(codes[j].SavedAt)
	})
	return codes, nil
}

// Delete removes a snippet
func (r *CodeRepository) Delete(ctx context.Context, owner, id string) error {
	removed, err := r.redisClient.HDel(ctx, r.ownerKey(owner), id).Result()
	if err != nil {
		r.logger.Error("Failed to delete code", "owner", owner, "codeId", id, "error", err)
		return fmt.Errorf("failed to delete code: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("%w: code %s", errs.NotFound, id)
	}
	return nil
}
