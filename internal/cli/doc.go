// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the meetcost command tree.
//
// The root command opens the live tracker. Subcommands drive the same
// meeting headlessly (start, pause, stop, reset, status, watch) through the
// session checkpoint, and manage history, exports, sharing, rates and
// configuration.
//
// Every command is built by a NewXCmd(deps) constructor, writes to
// cmd.OutOrStdout so it can be tested, and returns errors for main to print.
package cli
