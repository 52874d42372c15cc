package config

import (
	"os"
	"strconv"
)

type RedisConfig struct {
	DB          int
	Url         string
	Password    string
	KeyPrefix   string
	GradeStream string
}

func NewRedisConfig() *RedisConfig {
	db, err := strconv.Atoi(os.Getenv("REDIS_DB"))
	if err != nil {
		db = 0
	}
	return &RedisConfig{
		DB:          db,
		Url:         getEnv("REDIS_ADDR", "localhost:6379"),
		Password:    os.Getenv("REDIS_PASSWORD"),
		KeyPrefix:   getEnv("REDIS_KEY_PREFIX", "learnhub"),
		GradeStream: getEnv("REDIS_GRADE_STREAM", "learnhub:grades"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
