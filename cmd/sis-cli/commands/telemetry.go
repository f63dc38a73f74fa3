package commands

import (
	"context"
	"log/slog"
	"os"

	"sisquery/lib/telemetry"
)

// telemetrySetup installs slog and, when a telemetry.json5 exists up
// the tree, OTLP export. Missing telemetry config is not an error for a
// CLI.
func telemetrySetup(ctx context.Context, level slog.Level) {
	telemetry.InitSlog(level)

	_, err := telemetry.SetupFromEnv(ctx, "sis-cli")
	if err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to set up telemetry", "err", err)
	}
}
