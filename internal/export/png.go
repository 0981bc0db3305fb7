// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/jeranaias/meetcost/internal/util"
)

// =============================================================================
// PNG RECEIPT
// =============================================================================

const (
	receiptMargin     = 16
	receiptLineHeight = 16
	receiptMinCols    = 36
)

// PNGExporter renders a meeting as a till-receipt image.
type PNGExporter struct {
	options *Options
}

// NewPNGExporter creates a new PNG exporter.
func NewPNGExporter(opts *Options) *PNGExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &PNGExporter{options: opts}
}

// FileExtension returns ".png".
func (e *PNGExporter) FileExtension() string {
	return ".png"
}

// MimeType returns "image/png".
func (e *PNGExporter) MimeType() string {
	return "image/png"
}

// Export renders s as a PNG receipt.
func (e *PNGExporter) Export(s *Summary) ([]byte, error) {
	if s == nil {
		return nil, errNilSummary
	}

	lines := ReceiptLines(s)
	face := basicfont.Face7x13

	cols := receiptMinCols
	for _, l := range lines {
		if n := len(l); n > cols {
			cols = n
		}
	}
	width := cols*face.Advance + 2*receiptMargin
	height := len(lines)*receiptLineHeight + 2*receiptMargin

	bg, fg := color.Color(color.White), color.Color(color.Black)
	if e.options.Theme == "dark" {
		bg, fg = color.RGBA{0x1a, 0x1b, 0x26, 0xff}, color.RGBA{0xc0, 0xca, 0xf5, 0xff}
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Src: image.NewUniform(fg), Face: face}
	for i, l := range lines {
		d.Dot = fixed.P(receiptMargin, receiptMargin+face.Ascent+i*receiptLineHeight)
		d.DrawString(l)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// ReceiptLines lays out the receipt as fixed-width ASCII lines. The bitmap
// font only covers ASCII, so names are reduced to it.
func ReceiptLines(s *Summary) []string {
	rule := strings.Repeat("-", receiptMinCols)
	row := func(label, value string) string {
		pad := receiptMinCols - len(label) - len(value)
		if pad < 1 {
			pad = 1
		}
		return label + strings.Repeat(" ", pad) + value
	}

	lines := []string{
		center("MEETING RECEIPT", receiptMinCols),
		center(asciiOnly(s.DisplayName()), receiptMinCols),
		center(s.Date.Local().Format(DateLayout), receiptMinCols),
		rule,
	}
	for _, share := range s.Breakdown {
		label := fmt.Sprintf("%d x %s @ $%.0f", share.Count, asciiOnly(share.Role), share.Rate)
		lines = append(lines, row(label, util.FormatMoney(share.Cost)))
	}
	lines = append(lines,
		rule,
		row("DURATION", util.FormatClock(s.Elapsed)),
		row("TOTAL", util.FormatMoney(s.TotalCost)),
		rule,
	)
	if s.Classification.Comparison != "" {
		lines = append(lines, asciiOnly(s.Classification.Comparison))
	}
	lines = append(lines, "", center("THANK YOU FOR YOUR TIME", receiptMinCols))
	return lines
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", (width-len(s))/2) + s
}

func asciiOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 32 && r < 127 {
			b.WriteRune(r)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}
