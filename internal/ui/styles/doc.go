// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the colour palette and lip gloss styles for the
meetcost tracker.

All colours are lipgloss.AdaptiveColor values so they follow the terminal's
light or dark background. The background is detected with termenv unless
the theme is forced with ui.theme = "dark" or "light".

# Heat colours

Cost is coloured by its classification heat level:

	low      Emerald
	medium   Amber
	high     Orange
	critical Rose

# Accessibility

Status text always carries an ASCII indicator ([OK], [X], [!], [>], [=])
so state is readable without colour.
*/
package styles
