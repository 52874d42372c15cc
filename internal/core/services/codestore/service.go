package codestore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gitlab.com/learnhub.net/internal/core/ports/primary"
	"gitlab.com/learnhub.net/internal/core/ports/secondary"
	"gitlab.com/learnhub.net/internal/domain"
	"gitlab.com/learnhub.net/internal/static/errs"
)

// ICodeStoreService defines the interface for a user's saved code
type ICodeStoreService interface {
	// Save stores code for owner, assigning an ID when code has none
	Save(ctx context.Context, owner string, code *domain.SavedCode) (*domain.SavedCode, error)

	// Load retrieves one snippet
	Load(ctx context.Context, owner, id string) (*domain.SavedCode, error)

	// List returns the owner's snippets, newest first
	List(ctx context.Context, owner string) ([]*domain.SavedCode, error)

	// Delete removes one snippet
	Delete(ctx context.Context, owner, id string) error
}

var _ ICodeStoreService = (*CodeStoreService)(nil)

// CodeStoreService implements ICodeStoreService
type CodeStoreService struct {
	repo   secondary.SavedCodeRepository
	logger primary.Logger
	now    func() time.Time
}

// NewCodeStoreService creates a new saved-code service
func NewCodeStoreService(repo secondary.SavedCodeRepository, logger primary.Logger) *CodeStoreService {
	return &CodeStoreService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *CodeStoreService) Save(ctx context.Context, owner string, code *domain.SavedCode) (*domain.SavedCode, error) {
	if code == nil {
		return nil, fmt.Errorf("%w: missing code", errs.InvalidRequest)
	}
	if !code.Language.Valid() {
		return nil, fmt.Errorf("%w: %s", errs.UnknownLanguage, code.Language)
	}
	if strings.TrimSpace(code.Filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", errs.InvalidRequest)
	}

	saved := *code
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	saved.SavedAt = s.now().UTC()

	if err := s.repo.Save(ctx, owner, &saved); err != nil {
		return nil, err
	}
	s.logger.Debug("Saved code", "owner", owner, "codeId", saved.ID, "language", saved.Language)
	return &saved, nil
}

func (s *CodeStoreService) Load(ctx context.Context, owner, id string) (*domain.SavedCode, error) {
	code, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, fmt.Errorf("%w: code %s", errs.NotFound, id)
	}
	return code, nil
}

func (s *CodeStoreService) List(ctx context.Context, owner string) ([]*domain.SavedCode, error) {
	return s.repo.List(ctx, owner)
}

func (s *CodeStoreService) Delete(ctx context.Context, owner, id string) error {
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return err
	}
	s.logger.Debug("Deleted code", "owner", owner, "codeId", id)
	return nil
}
