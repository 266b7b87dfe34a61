// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ik5/audpeaks/display"
)

var (
	playedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#88C0D0"))
	unplayedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4C566A"))
	readyStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A3BE8C"))
	loadingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EBCB8B"))
	failedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#BF616A"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
)

// eighths are the partial blocks used for the top cell of a column.
var eighths = []rune(" ▁▂▃▄▅▆▇█")

// renderWaveform draws snap's bars as columns of block characters, rows
// cells high. Bar x positions map onto terminal columns.
func renderWaveform(snap display.Snapshot, width, rows int) string {
	if width <= 0 || rows <= 0 {
		return ""
	}

	// height in eighths of a cell per column; -1 marks an empty column
	heights := make([]int, width)
	played := make([]bool, width)
	for i := range heights {
		heights[i] = -1
	}
	for _, b := range snap.Bars {
		first := int(math.Floor(b.X))
		last := int(math.Ceil(b.Right())) - 1
		h := int(math.Round(float64(b.Magnitude) * float64(rows*8)))
		for col := max(first, 0); col <= min(last, width-1); col++ {
			heights[col] = max(heights[col], h)
			played[col] = b.Played
		}
	}

	lines := make([]string, rows)
	for r := range rows {
		// rows count down from the top
		floor := (rows - 1 - r) * 8
		var line strings.Builder
		for col, h := range heights {
			cell := ' '
			if h >= 0 {
				cell = eighths[min(max(h-floor, 0), 8)]
			}
			if r == rows-1 && h >= 0 && cell == ' ' {
				// keep silent bars visible on the baseline
				cell = eighths[1]
			}
			style := unplayedStyle
			if played[col] {
				style = playedStyle
			}
			line.WriteString(style.Render(string(cell)))
		}
		lines[r] = line.String()
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func statusLine(snap display.Snapshot, fromCache bool) string {
	var status string
	switch snap.Status {
	case display.StatusReady:
		status = readyStyle.Render("ready")
	case display.StatusFailed:
		status = failedStyle.Render("unable to analyze this file")
	default:
		status = loadingStyle.Render(snap.Status.String())
	}

	detail := fmt.Sprintf("%d peaks, %d bars", snap.Peaks, len(snap.Bars))
	if fromCache {
		detail += ", cached"
	}
	if snap.Err != nil {
		detail += ": " + snap.Err.Error()
	}
	return status + " " + faintStyle.Render(detail)
}

// progressLine is a one-line progress bar for a running generation.
func progressLine(completion float64, peaks, width int) string {
	barWidth := max(width-24, 10)
	filled := min(int(completion*float64(barWidth)), barWidth)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return loadingStyle.Render(fmt.Sprintf("[%s] %3d%% %6d peaks", bar, int(completion*100), peaks))
}
