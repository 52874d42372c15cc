// Command mcp serves the code sandbox as MCP tools over stdio.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"gitlab.com/learnhub.net/internal/adapter/logging"
	"gitlab.com/learnhub.net/internal/adapter/pyinterp"
	"gitlab.com/learnhub.net/internal/adapter/yamltemplate"
	"gitlab.com/learnhub.net/internal/config"
	"gitlab.com/learnhub.net/internal/core/ports/secondary"
	"gitlab.com/learnhub.net/internal/core/services/grading"
	"gitlab.com/learnhub.net/internal/core/services/sandbox"
	"gitlab.com/learnhub.net/internal/mcp"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 {
		if err := godotenv.Load(os.Args[1] + ".env"); err != nil {
			log.Fatalf("Error loading %s.env file", os.Args[1])
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "learnhub-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sysCfg := config.NewSystemConfig()

	// zap writes to stderr, stdout carries the protocol
	logger := logging.NewZapLogger()
	if sysCfg.DebugMode {
		logger = logging.NewDebugZapLogger()
	}

	var templateRepo secondary.TemplateRepository
	if templates, err := yamltemplate.Load(sysCfg.SandboxConfig.TemplateDir, logger); err != nil {
		logger.Warn("Failed to load code templates", "error", err)
	} else {
		templateRepo = templates
	}

	loader := pyinterp.NewLoader(sysCfg.SandboxConfig, logger)
	defer loader.Reset()

	sandboxSvc := sandbox.NewSandboxService(sysCfg.SandboxConfig, loader, logger)
	gradingSvc := grading.NewGradingService(sandboxSvc, templateRepo, nil, nil, logger)

	server := mcp.NewServer(sysCfg.HttpConfig.ServiceName, version, sandboxSvc, gradingSvc)
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}
