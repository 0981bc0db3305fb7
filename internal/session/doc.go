// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the single live meeting.
//
// A Manager wraps an accrual.Session value behind a mutex together with the
// milestone watermark, the meeting name and its outcome. The TUI calls it
// from the bubbletea update loop; headless mode calls Tick from a
// ticker.Scheduler goroutine.
//
// # Checkpoints
//
// When a checkpoint path is configured, every transition (start, pause,
// reset, configure, rename) writes the state atomically as JSON. Ticks
// write at most once per CheckpointInterval. This is what lets
// `meetcost start` and `meetcost stop` run as separate processes.
//
// # Usage
//
//	mgr := session.NewManager(session.Config{Rates: rates, CheckpointPath: path})
//	if err := mgr.Restore(); err != nil && !errors.Is(err, session.ErrNoCheckpoint) {
//	    return err
//	}
//	mgr.Start(nil)
//	snap, crossed := mgr.Tick()
package session
