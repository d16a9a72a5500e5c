// Package main evaluates one dice expression from the command line.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	dicecmd "github.com/louisbranch/diceparser/internal/cmd/dice"
	entrypoint "github.com/louisbranch/diceparser/internal/platform/cmd"
	"github.com/louisbranch/diceparser/internal/platform/config"
)

func main() {
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceDice))
	cfg, err := dicecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dicecmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}
