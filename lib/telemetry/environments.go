package telemetry

import (
	"context"
	"log/slog"
	"os"
	"testing"
)

var setupTestEnvironments = map[string]bool{}

// SetupForTesting configures slog and, when a telemetry.json5 can be
// found, OTLP export. It ensures a service is not set up more than once.
func SetupForTesting(t testing.TB, serviceName string) func() {
	if setupTestEnvironments[serviceName] {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	InitSlog(slog.LevelDebug)

	tel, err := SetupFromEnv(context.Background(), serviceName)
	if os.IsNotExist(err) {
		return func() {}
	}
	if err != nil {
		t.Fatal(err)
	}
	return func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
}
