package preflight

import (
	"context"
	"fmt"
	"strings"

	"reelcut/internal/config"
	"reelcut/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Workspace", cfg.Paths.WorkspaceDir))
	if cfg.Paths.OutputDir != "" {
		results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
		results = append(results, CheckFreeSpace("Output free space", cfg.Paths.OutputDir, minOutputFreeBytes))
	}
	results = append(results, CheckFreeSpace("Workspace free space", cfg.Paths.WorkspaceDir, minWorkspaceFreeBytes))

	for _, status := range CheckSystemDeps(ctx, cfg) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if status.Available {
			result.Detail = status.Command
		} else if status.Optional {
			result.Passed = true
			result.Detail = strings.TrimSpace(status.Detail + " (optional)")
		}
		results = append(results, result)
	}

	return results
}

// Failed returns the failing checks from a result set.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}

// CheckSystemDeps evaluates the external tools a run needs.
func CheckSystemDeps(_ context.Context, cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpeg.FFmpegBinary,
			Description: "Required for signal extraction and clip transcoding",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFmpeg.FFprobeBinary,
			Description: "Required for media inspection",
		},
	}
	if cfg.Transcription.Enabled {
		requirements = append(requirements, deps.Requirement{
			Name:        "Transcriber",
			Command:     cfg.Transcription.Binary,
			Description: "Required for clip transcription",
		})
	}
	return deps.CheckBinaries(requirements)
}

// Summarize renders results as one line per check for error messages.
func Summarize(results []Result) string {
	var b strings.Builder
	for _, result := range results {
		state := "ok"
		if !result.Passed {
			state = "FAILED"
		}
		fmt.Fprintf(&b, "%s: %s (%s)\n", result.Name, state, result.Detail)
	}
	return strings.TrimSpace(b.String())
}
