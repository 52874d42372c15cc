package config

import "os"

type JwtConfig struct {
	Secret string
	Method string
}

func NewJwtConfig() *JwtConfig {
	method := os.Getenv("JWT_METHOD")
	if method == "" {
		method = "HS256"
	}
	return &JwtConfig{
		Secret: os.Getenv("JWT_SECRET"),
		Method: method,
	}
}

// Enabled reports whether API requests must carry a token.
func (c *JwtConfig) Enabled() bool {
	return c.Secret != ""
}
