package secondary

import (
	"context"

	"gitlab.com/learnhub.net/internal/domain"
)

// TemplateRepository serves lesson code templates and their test cases.
type TemplateRepository interface {
	// GetTemplate returns nil, nil when no template has the id
	GetTemplate(ctx context.Context, id string) (*domain.CodeTemplate, error)

	ListTemplates(ctx context.Context) ([]*domain.CodeTemplate, error)
}
