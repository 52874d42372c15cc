package config

import "os"

type AppConfig struct {
	DebugMode      bool
	HttpConfig     *HttpConfig
	SandboxConfig  *SandboxConfig
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
	JwtConfig      *JwtConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		HttpConfig:     NewHttpConfig(),
		SandboxConfig:  NewSandboxConfig(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
		JwtConfig:      NewJwtConfig(),
	}
}
