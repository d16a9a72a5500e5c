// Package roller parses roller service flags and launches the service.
package roller

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/diceparser/internal/platform/cmd"
	server "github.com/louisbranch/diceparser/internal/services/roller/app"
)

// Config holds roller command configuration.
type Config struct {
	Port int `env:"ROLLER_PORT" envDefault:"8090"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The roller gRPC server port")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the roller gRPC API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRoller, func(ctx context.Context) error {
		return server.Run(ctx, cfg.Port)
	})
}
