package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/coreos/pkg/capnslog"
	"github.com/joho/godotenv"
)

const (
	defaultPort     = 5173
	defaultDocument = "investment-stages-60-months.html"
	dotEnvFile      = ".env"
)

// config is built once at startup and shared read-only by every request.
type config struct {
	Port            int
	Root            string
	DefaultDocument string
	LogLevel        capnslog.LogLevel
}

// loadConfig builds the configuration from getenv. Rejected values fall
// back to their defaults and are reported as warnings.
func loadConfig(getenv func(string) string, root string) (*config, []string) {
	cfg := &config{
		Port:            defaultPort,
		Root:            filepath.Clean(root),
		DefaultDocument: defaultDocument,
		LogLevel:        capnslog.NOTICE,
	}

	var warnings []string
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		switch {
		case err != nil:
			warnings = append(warnings, fmt.Sprintf("PORT %q is not a number, using %d", v, defaultPort))
		case port < 1 || port > 65535:
			warnings = append(warnings, fmt.Sprintf("PORT %d is out of range, using %d", port, defaultPort))
		default:
			cfg.Port = port
		}
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		l, err := capnslog.ParseLevel(v)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("LOG_LEVEL %q is invalid, using %s", v, cfg.LogLevel))
		} else {
			cfg.LogLevel = l
		}
	}

	return cfg, warnings
}

// documentRoot returns the directory holding the running executable.
func documentRoot() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	if exe, err = filepath.EvalSymlinks(exe); err != nil {
		return "", fmt.Errorf("resolving executable: %w", err)
	}
	return filepath.Abs(filepath.Dir(exe))
}

// loadDotEnv loads root/.env into the environment without overriding
// variables that are already set. A missing file is ignored.
func loadDotEnv(root string) error {
	err := godotenv.Load(filepath.Join(root, dotEnvFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
