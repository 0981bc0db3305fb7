// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package classify maps a meeting's running cost onto static threshold
// tables: heat level, milestone message, comparison text, opportunity cost
// and auditor commentary.
//
// Every table is ordered ascending by threshold and lookup picks the highest
// entry whose threshold is <= cost. Classify is a pure function of cost.
//
// Watermark tracks which milestones have already fired so a chime plays once
// per upward crossing.
package classify
