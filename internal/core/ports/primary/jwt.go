package primary

import (
	"context"

	"gitlab.com/learnhub.net/internal/domain"
)

type JWTService interface {
	GenerateTokenHMAC(ctx context.Context, method string, claims map[string]interface{}) (string, error)
	VerifyTokenHMAC(ctx context.Context, token string, method string) (bool, error)
	DecodeTokenPayload(ctx context.Context, token string) (domain.AuthPayload, error)

	// Authenticate verifies token and returns its payload
	Authenticate(ctx context.Context, token string) (domain.AuthPayload, error)
}
