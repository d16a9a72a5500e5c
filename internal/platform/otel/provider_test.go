package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/diceparser/internal/platform/otel"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("DICEPARSER_OTEL_ENDPOINT", "")
	t.Setenv("DICEPARSER_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv("DICEPARSER_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("DICEPARSER_OTEL_ENABLED", "false")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_RejectsMalformedSettings(t *testing.T) {
	t.Setenv("DICEPARSER_OTEL_ENABLED", "sometimes")

	if _, err := otel.Setup(context.Background(), "test-service"); err == nil {
		t.Fatal("expected error for malformed DICEPARSER_OTEL_ENABLED")
	}
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so no export happens.
	t.Setenv("DICEPARSER_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("DICEPARSER_OTEL_ENABLED", "")
	t.Setenv("DICEPARSER_OTEL_SAMPLE_RATIO", "0.5")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("DICEPARSER_OTEL_ENDPOINT", "")
	t.Setenv("DICEPARSER_OTEL_ENABLED", "")
	t.Setenv("DICEPARSER_OTEL_SAMPLE_RATIO", "")

	settings, err := otel.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if !settings.Enabled || settings.SampleRatio != 1 || settings.Endpoint != "" {
		t.Fatalf("settings = %+v", settings)
	}
}

func TestTracerWithoutSetup(t *testing.T) {
	_, span := otel.Tracer("test").Start(context.Background(), "noop")
	defer span.End()
	if span == nil {
		t.Fatal("expected span")
	}
}
