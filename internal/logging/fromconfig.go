package logging

import (
	"log/slog"
	"path/filepath"

	"reelcut/internal/config"
)

// NewFromConfig creates a logger using application config defaults. The run
// log is a JSON file under the workspace log directory; old run logs are
// pruned per the configured retention.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{})
	}
	opts := Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if dir := cfg.LogDir(); dir != "" {
		opts.FilePath = filepath.Join(dir, "reelcut.log")
	}
	logger, err := New(opts)
	if err != nil {
		return nil, err
	}
	if dir := cfg.LogDir(); dir != "" && cfg.Logging.RetentionDays > 0 {
		CleanupOldLogs(logger, cfg.Logging.RetentionDays, RetentionTarget{
			Dir:     dir,
			Pattern: "*.log",
			Exclude: []string{opts.FilePath},
		})
	}
	return logger, nil
}
