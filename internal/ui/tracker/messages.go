// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tracker

import (
	"time"

	"github.com/jeranaias/meetcost/internal/config"
	"github.com/jeranaias/meetcost/internal/history"
)

// tickMsg drives the display while running. A tick whose generation no
// longer matches the model is stale and is dropped without rescheduling.
type tickMsg struct {
	gen int
	at  time.Time
}

// configChangedMsg carries a reloaded configuration from the file watcher.
type configChangedMsg struct {
	cfg *config.Config
}

// savedMsg reports the outcome of saving a meeting to history.
type savedMsg struct {
	rec history.Record
	err error
}

// historyLoadedMsg carries the history list for the history pane.
type historyLoadedMsg struct {
	records []history.Record
	err     error
}

// exportedMsg reports the outcome of an export.
type exportedMsg struct {
	path string
	err  error
}
