package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/madori/engine"
)

// chapterLabel names the chapter for the status bar.
func chapterLabel(snap engine.Snapshot) string {
	if snap.GameEnded {
		return "終章"
	}
	return fmt.Sprintf("第%d章", snap.Chapter)
}

// renderStatusBar produces a full-width inverted status line showing the
// current room, chapter, clock, desync and inventory.
func (m Model) renderStatusBar() string {
	snap := m.engine.Snapshot()

	left := fmt.Sprintf(" %s | %s | %s", snap.CurrentRoom, chapterLabel(snap), snap.Clock)
	if snap.Target != "" && snap.Target != snap.CurrentRoom {
		left += " | ▸" + snap.Target
	}
	meters := fmt.Sprintf("同期ずれ %d%% | 視界 %.0f", snap.Desync, snap.Fog)
	right := meters + " "

	// Show inventory items if they fit, otherwise just count.
	if snap.Inventory != "" {
		candidate := fmt.Sprintf("%s | 持ち物: %s ", meters, snap.Inventory)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			count := strings.Count(snap.Inventory, "、") + 1
			right = fmt.Sprintf("%s | 持ち物: %d ", meters, count)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	style := styleStatusBar
	if snap.GameEnded {
		style = styleStatusEnded
	}
	return style.Width(m.width).Render(bar)
}
