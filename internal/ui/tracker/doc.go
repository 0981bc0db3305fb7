// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tracker is the interactive meeting cost view.
//
// The model owns no cost state: it drives a session.Manager and renders its
// Status. While running, a tea.Tick message refreshes the display every
// tracker.tick_ms. Each tick carries the generation it was scheduled in;
// start, pause, reset and quit bump the generation, so a tick already in
// flight is dropped instead of rescheduling itself.
//
// Config reloads from config.Watcher are applied immediately when paused and
// held until the next pause while running.
package tracker
