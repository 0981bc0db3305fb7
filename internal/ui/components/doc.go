// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components holds the reusable views of the tracker: the role
// breakdown table and the meeting history list. Components render from
// plain values and keep no session state of their own.
package components
