// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Yes/no prompts for destructive or end-of-meeting actions.
//
// The pattern is the same everywhere:
//  1. --yes skips the prompt
//  2. without a terminal on stdin there is no prompt, so the caller gets an error
//  3. otherwise ask on the terminal

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/peterh/liner"
)

// PromptYesNo asks question on the terminal and reports whether the answer
// was y or yes. Ctrl+C counts as no.
func PromptYesNo(question string) (bool, error) {
	if !CanPrompt() {
		return false, &TTYRequiredError{Operation: "answer " + question}
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	answer, err := line.Prompt(question + " [y/N]: ")
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	return parseYes(answer), nil
}

// RequireConfirmation returns true when yesFlag is set, otherwise prompts.
func RequireConfirmation(yesFlag bool, action string) (bool, error) {
	if yesFlag {
		return true, nil
	}
	if !CanPrompt() {
		return false, fmt.Errorf("confirmation required but stdin is not a terminal; use --yes")
	}
	return PromptYesNo(fmt.Sprintf("Are you sure you want to %s?", action))
}

func parseYes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "y" || s == "yes"
}
