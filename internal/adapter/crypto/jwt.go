package crypto

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gitlab.com/learnhub.net/internal/config"
	"gitlab.com/learnhub.net/internal/core/ports/primary"
	"gitlab.com/learnhub.net/internal/domain"
	"gitlab.com/learnhub.net/internal/static/errs"
)

var _ primary.JWTService = (*JWTServiceImpl)(nil)

type JWTServiceImpl struct {
	HMACSecretKey string
	Method        string
}

func NewJWTService(jwtConfig *config.JwtConfig) primary.JWTService {
	return &JWTServiceImpl{
		HMACSecretKey: jwtConfig.Secret,
		Method:        jwtConfig.Method,
	}
}

func (J JWTServiceImpl) GenerateTokenHMAC(ctx context.Context, method string, claims map[string]interface{}) (string, error) {
	signingMethod, ok := jwt.GetSigningMethod(method).(*jwt.SigningMethodHMAC)
	if !ok {
		return "", fmt.Errorf("unsupported signing method: %s", method)
	}

	// Ensure the claims map contains an expiration time
	if _, exists := claims["exp"]; !exists {
		claims["exp"] = time.Now().Add(time.Hour * 1).Unix()
	}

	tok := jwt.NewWithClaims(signingMethod, jwt.MapClaims(claims))
	return tok.SignedString([]byte(J.HMACSecretKey))
}

func (J JWTServiceImpl) VerifyTokenHMAC(ctx context.Context, token string, method string) (bool, error) {
	if jwt.GetSigningMethod(method) == nil {
		return false, fmt.Errorf("unsupported signing method: %s", method)
	}

	parsedToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(J.HMACSecretKey), nil
	}, jwt.WithValidMethods([]string{method}))
	if err != nil {
		return false, err
	}

	return parsedToken.Valid, nil
}

func decodeSeg(signature string) (string, error) {
	sig, err := jwt.NewParser().DecodeSegment(signature)
	if err != nil {
		return "", err
	}
	return string(sig), nil
}

// DecodeTokenPayload reads the claims without verifying the signature.
func (J JWTServiceImpl) DecodeTokenPayload(ctx context.Context, token string) (domain.AuthPayload, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return domain.AuthPayload{}, fmt.Errorf("invalid token format")
	}

	payloadData, err := decodeSeg(parts[1])
	if err != nil {
		return domain.AuthPayload{}, fmt.Errorf("failed to decode token payload: %w", err)
	}

	var authPayload domain.AuthPayload
	if err := json.Unmarshal([]byte(payloadData), &authPayload); err != nil {
		return domain.AuthPayload{}, fmt.Errorf("failed to parse AuthPayload: %w", err)
	}
	return authPayload, nil
}

func (J JWTServiceImpl) Authenticate(ctx context.Context, token string) (domain.AuthPayload, error) {
	valid, err := J.VerifyTokenHMAC(ctx, token, J.Method)
	if err != nil || !valid {
		return domain.AuthPayload{}, fmt.Errorf("%w: %v", errs.InvalidToken, err)
	}
	return J.DecodeTokenPayload(ctx, token)
}
