package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given display width. Gate names can
// carry multi-byte runes (†), so measure and truncate by width, not bytes.
func padCenter(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "")
	}
	total := width - w
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// gateDisplayName returns a short display name for a gate.
func gateDisplayName(g *Gate) string {
	if g.Type == "MEASURE" {
		return "M"
	}
	if g.IsDagger {
		return g.Type + "†"
	}
	return g.Type
}

// controlSymbol returns the wire symbol for the control qubit of a two-qubit gate.
func controlSymbol(gateType string) string {
	if gateType == "SWAP" {
		return "×"
	}
	return "●"
}

// targetSymbol returns the wire symbol for the target qubit of a two-qubit gate.
func targetSymbol(gateType string) string {
	switch gateType {
	case "CZ":
		return "●"
	case "SWAP":
		return "×"
	default:
		return "⊕"
	}
}

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	gate         *Gate
	isControl    bool
	isTarget     bool
	vertAbove    bool
	vertBelow    bool
	passThrough  bool
	measureBelow bool
}

// getCellInfo returns rendering information for the cell at (step, qubit).
func getCellInfo(c *Circuit, step, qubit int) cellInfo {
	var info cellInfo

	if gate := c.GateAt(step, qubit); gate != nil {
		info.gate = gate
		info.isControl = gate.Control == qubit
		info.isTarget = gate.Target == qubit && gate.Control >= 0
	}

	// Vertical connections for two-qubit gates spanning this row.
	for _, g := range c.Gates {
		if g.Step != step || g.Control < 0 {
			continue
		}
		minQ, maxQ := min(g.Control, g.Target), max(g.Control, g.Target)
		if qubit >= minQ && qubit <= maxQ {
			if qubit > minQ {
				info.vertAbove = true
			}
			if qubit < maxQ {
				info.vertBelow = true
			}
			if qubit > minQ && qubit < maxQ && info.gate == nil {
				info.passThrough = true
			}
		}
	}

	// Measurement wires drop down to the classical rail below all qubits.
	if mq := c.measureAtStep(step); mq >= 0 && qubit > mq {
		info.measureBelow = true
	}

	return info
}

// renderCell returns 3 lines (top, mid, bot) for a single cell, each exactly
// cellW visual characters wide.
func renderCell(info cellInfo) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dblVertRow := strings.Repeat(" ", halfW) + cbitConnectorStyle.Render("║") + strings.Repeat(" ", cellW-halfW-1)
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	switch {
	case info.gate != nil && info.isControl:
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		sym := controlSymbol(info.gate.Type)
		mid = strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}
		if info.measureBelow {
			bot = dblVertRow
		}

	case info.gate != nil && info.isTarget:
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		sym := targetSymbol(info.gate.Type)
		mid = strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}
		if info.measureBelow {
			bot = dblVertRow
		}

	case info.gate != nil:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(gateDisplayName(info.gate), gateNameW)
		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
		if info.gate.Type == "MEASURE" || info.measureBelow {
			bot = dblVertRow
		}

	case info.passThrough:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow
		if info.measureBelow {
			bot = dblVertRow
		}

	case info.measureBelow:
		top = dblVertRow
		mid = strings.Repeat("─", dashL) + cbitConnectorStyle.Render("╫") + strings.Repeat("─", dashR)
		bot = dblVertRow
		if info.vertAbove {
			top = vertRow
		}

	default:
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", cellW)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}
	}

	return
}

// RenderCircuit renders the whole circuit as a wire diagram.
func RenderCircuit(c *Circuit) string {
	var sb strings.Builder

	// Step number header
	header := strings.Repeat(" ", labelVisualW)
	for step := 0; step < c.MaxSteps; step++ {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", step), cellW))
	}
	sb.WriteString(header + "\n")

	// Each qubit renders as 3 lines.
	for qubit := 0; qubit < c.NumQubits; qubit++ {
		topLine := strings.Repeat(" ", labelVisualW)
		label := fmt.Sprintf("q[%d]", qubit)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := 0; step < c.MaxSteps; step++ {
			top, mid, bot := renderCell(getCellInfo(c, step, qubit))
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// Classical rail with measurement landing points.
	if numCbits := c.NumCbits(); numCbits > 0 {
		label := fmt.Sprintf("c%d", numCbits)
		cbitLine := cbitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + cbitWireStyle.Render("══")

		for step := 0; step < c.MaxSteps; step++ {
			mq := c.measureAtStep(step)
			if mq < 0 {
				cbitLine += cbitWireStyle.Render(strings.Repeat("═", cellW))
				continue
			}
			bitLabel := fmt.Sprintf("%d", mq)
			dashL := (cellW - 1) / 2
			dashR := max(cellW-dashL-1-len(bitLabel), 0)
			cbitLine += cbitWireStyle.Render(strings.Repeat("═", dashL)) +
				cbitConnectorStyle.Render("╩"+bitLabel) +
				cbitWireStyle.Render(strings.Repeat("═", dashR))
		}
		sb.WriteString(cbitLine + "\n")
	}

	return sb.String()
}

// ──────────────────────────── Result rendering ────────────────────────────

// RenderSummary renders a benchmark result as a bordered summary panel.
func RenderSummary(r *BenchResult) string {
	row := func(name, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-10s", name)) + valueStyle.Render(value)
	}

	lines := []string{
		titleStyle.Render("Simulation benchmark"),
		row("backend", r.Config.Simulator),
		row("strategy", r.Config.Strategy.String()),
		row("qubits", fmt.Sprintf("%d", r.Config.Qubits)),
		row("depth", fmt.Sprintf("%d", r.Config.Depth)),
		row("gates", fmt.Sprintf("%d in %d steps", r.Gates, r.Steps)),
		row("shots", fmt.Sprintf("%d", r.Config.Shots)),
		row("seed", fmt.Sprintf("%d", r.Config.Seed)),
		row("total", r.Total.String()),
		row("per shot", r.PerShot.String()),
	}
	return summaryStyle.Render(strings.Join(lines, "\n"))
}

// RenderCounts renders the most frequent measurement outcomes, up to limit.
func RenderCounts(counts map[string]int, shots, limit int) string {
	type outcome struct {
		key   string
		count int
	}
	outcomes := make([]outcome, 0, len(counts))
	for k, n := range counts {
		outcomes = append(outcomes, outcome{k, n})
	}
	sort.Slice(outcomes, func(i, j int) bool {
		if outcomes[i].count != outcomes[j].count {
			return outcomes[i].count > outcomes[j].count
		}
		return outcomes[i].key < outcomes[j].key
	})

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Top outcomes") + "\n")
	for i, o := range outcomes {
		if limit > 0 && i >= limit {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more\n", len(outcomes)-limit)))
			break
		}
		pct := 100 * float64(o.count) / float64(shots)
		fmt.Fprintf(&sb, "  %s %s\n",
			gateStyle.Render(o.key),
			dimStyle.Render(fmt.Sprintf("%d (%.1f%%)", o.count, pct)))
	}
	return sb.String()
}

// RenderSweepTable renders sweep results as an aligned table.
func RenderSweepTable(results []*BenchResult) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%-8s %-7s %-7s %-12s %-12s",
		"qubits", "depth", "shots", "total", "per-shot")) + "\n")
	for _, r := range results {
		fmt.Fprintf(&sb, "%-8d %-7d %-7d %-12s %-12s\n",
			r.Config.Qubits, r.Config.Depth, r.Config.Shots,
			r.Total.String(), r.PerShot.String())
	}
	return sb.String()
}
