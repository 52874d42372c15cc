package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// SandboxConfig controls the execution engines and the Python interpreter.
type SandboxConfig struct {
	ExecutionTimeout   time.Duration
	PythonPath         string
	PythonStartTimeout time.Duration
	TemplateDir        string
}

// sandboxFile is the YAML overlay read from SANDBOX_CONFIG_FILE.
type sandboxFile struct {
	ExecutionTimeout   string `yaml:"execution_timeout"`
	PythonPath         string `yaml:"python_path"`
	PythonStartTimeout string `yaml:"python_start_timeout"`
	TemplateDir        string `yaml:"template_dir"`
}

func NewSandboxConfig() *SandboxConfig {
	timeoutMs, err := strconv.Atoi(os.Getenv("SANDBOX_TIMEOUT_MS"))
	if err != nil || timeoutMs <= 0 {
		timeoutMs = 5000
	}
	startSec, err := strconv.Atoi(os.Getenv("PYTHON_START_TIMEOUT_SEC"))
	if err != nil || startSec <= 0 {
		startSec = 30
	}
	cfg := &SandboxConfig{
		ExecutionTimeout:   time.Duration(timeoutMs) * time.Millisecond,
		PythonPath:         getEnv("PYTHON_PATH", "python3"),
		PythonStartTimeout: time.Duration(startSec) * time.Second,
		TemplateDir:        getEnv("TEMPLATE_DIR", "templates"),
	}

	if path := os.Getenv("SANDBOX_CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			// env values stay in effect
			fmt.Fprintf(os.Stderr, "sandbox config: %v\n", err)
		}
	}
	return cfg
}

// LoadFile overlays the non-empty values of a YAML file onto c.
func (c *SandboxConfig) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var f sandboxFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if f.ExecutionTimeout != "" {
		d, err := time.ParseDuration(f.ExecutionTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid execution_timeout %q", f.ExecutionTimeout)
		}
		c.ExecutionTimeout = d
	}
	if f.PythonStartTimeout != "" {
		d, err := time.ParseDuration(f.PythonStartTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid python_start_timeout %q", f.PythonStartTimeout)
		}
		c.PythonStartTimeout = d
	}
	if f.PythonPath != "" {
		c.PythonPath = f.PythonPath
	}
	if f.TemplateDir != "" {
		c.TemplateDir = f.TemplateDir
	}
	return nil
}
