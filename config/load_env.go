package config

import (
	"log/slog"

	"github.com/subosito/gotenv"
)

// LoadEnv loads a local .env file when one exists. Values already present in
// the OS environment win.
func LoadEnv() {
	if err := gotenv.Load(); err != nil {
		slog.Debug("No .env file found, using OS environment")
	}
}
