package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"LendIt/internal/cli/commands"
	"LendIt/internal/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	os.Exit(run())
}

// run возвращает код выхода; отложенные вызовы выполняются до os.Exit.
func run() int {
	// env + flags
	cfg := config.NewConfig()
	if cfg.Version {
		fmt.Printf("LendIt CLI\nVersion: %s\nBuild date: %s\n", version, buildDate)
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return commands.Dispatch(ctx, cfg, flag.Args())
}
