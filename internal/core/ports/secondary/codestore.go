package secondary

import (
	"context"

	"gitlab.com/learnhub.net/internal/domain"
)

// SavedCodeRepository stores code snippets per owner.
type SavedCodeRepository interface {
	Save(ctx context.Context, owner string, code *domain.SavedCode) error

	// Get returns nil, nil when the snippet does not exist
	Get(ctx context.Context, owner, id string) (*domain.SavedCode, error)

	List(ctx context.Context, owner string) ([]*domain.SavedCode, error)

	Delete(ctx context.Context, owner, id string) error
}
