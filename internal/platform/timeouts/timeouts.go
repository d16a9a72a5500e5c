// Package timeouts defines shared timeout constants used across the dice
// binaries, so the CLI, the MCP server and the roller agree on them.
package timeouts

import "time"

// GRPCDial caps the wait for a roller to report SERVING.
const GRPCDial = 5 * time.Second

// GRPCRequest caps a single evaluate or tokenize call against the roller.
const GRPCRequest = 5 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 10 * time.Second

// Shutdown limits how long a server waits for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second
