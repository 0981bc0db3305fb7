// meetcost - live meeting cost tracker for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	"github.com/jeranaias/meetcost/internal/cli"
	"github.com/jeranaias/meetcost/internal/config"
	"github.com/jeranaias/meetcost/internal/logging"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("Error:")+" "+err.Error())
		os.Exit(cli.GetExitCode(err))
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		if cfg == nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	config.SetGlobal(cfg)

	// Command output owns the terminal, so logs always go to a file.
	logger, err := logging.ForTUI(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	deps := &cli.Dependencies{
		Config: cfg,
		Logger: logger,
	}
	return cli.NewRootCmd(deps).Execute()
}
