package config

import (
	"os"
	"strconv"
)

type HttpConfig struct {
	Port        int
	ServiceName string
}

func NewHttpConfig() *HttpConfig {
	port, err := strconv.Atoi(os.Getenv("HTTP_PORT"))
	if err != nil || port <= 0 {
		port = 8082
	}
	name := os.Getenv("SERVICE_NAME")
	if name == "" {
		name = "learnhub-sandbox"
	}
	return &HttpConfig{
		Port:        port,
		ServiceName: name,
	}
}
