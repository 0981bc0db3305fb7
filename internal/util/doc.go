// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across meetcost.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// Formatting:
//   - FormatMoney: "$1,234.56" with thousands separators
//   - FormatClock: HH:MM:SS for an elapsed duration
//   - PadRight, TruncateWidth: display-width aware column helpers
//
// # Usage
//
//	err := util.AtomicWriteFile(path, data, 0644)
//	fmt.Println(util.FormatMoney(550), util.FormatClock(time.Hour))
package util
