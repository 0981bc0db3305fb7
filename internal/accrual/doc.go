// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package accrual converts a meeting's hourly burn rate and elapsed wall-clock
// time into a running cost.
//
// The package is deliberately free of I/O and hidden state. A Session is an
// immutable value; every transition (Start, Tick, Stop, Reset, Configure)
// takes a Session and returns a new one.
//
// # Key Types
//
//   - RateConfig: flat headcount x rate, or role-weighted headcount
//   - Session: accumulated elapsed time plus the current run segment
//   - Snapshot: derived elapsed time and total cost at a point in time
//   - Clock: wall-clock source (SystemClock, ManualClock)
//
// # Usage
//
//	cfg := accrual.FlatConfig(4, 100) // 4 people at $100/hr
//	s := accrual.NewSession(cfg)
//	s = accrual.Start(s, clock.Now())
//	s, snap := accrual.Tick(s, clock.Now())
//	fmt.Printf("%.2f\n", snap.TotalCost)
//
// # Cost Model
//
// Cost is always the closed form (hourlyRate/3600) * elapsedSeconds. It is
// never a running sum of per-tick increments, so the result is independent of
// how often the host samples.
package accrual
