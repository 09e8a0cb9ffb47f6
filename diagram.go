package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	gate         *Gate
	label        string // box label, empty for wire symbols
	symbol       string // wire symbol for controls, CX targets and swaps
	vertAbove    bool
	vertBelow    bool
	passThrough  bool
	measureBelow bool // a measurement above this qubit runs its wire through
	isBarrier    bool
}

// gateLabel returns the boxed label for a gate drawn on the given qubit, or
// the wire symbol for control dots, CX targets and swap ends.
func gateLabel(g Gate, qubit int) (label, symbol string) {
	switch g.Type {
	case GateMeasure:
		return "M", ""
	case GateSWAP:
		return "", "×"
	case GateCX, GateCCX:
		if qubit == g.Target {
			return "", "⊕"
		}
		return "", "●"
	case GateCP:
		if qubit == g.Target {
			return "P(" + formatParam(g.Params[0]) + ")", ""
		}
		return "", "●"
	case GateRX, GateRY, GateRZ, GateP:
		return g.Type + "(" + formatParam(g.Params[0]) + ")", ""
	case GateSX:
		if g.IsDagger {
			return "√X†", ""
		}
		return "√X", ""
	case GateS, GateT:
		if g.IsDagger {
			return g.Type + "†", ""
		}
		return g.Type, ""
	default:
		return g.Type, ""
	}
}

// getCellInfo returns rendering information for the cell at (step, qubit).
func getCellInfo(c Circuit, atStep []int, qubit int) cellInfo {
	var info cellInfo
	for _, idx := range atStep {
		g := &c.Gates[idx]
		if g.Type == GateBarrier {
			info.isBarrier = true
			info.gate = g
			continue
		}
		if g.Type == GateMeasure {
			if g.Target == qubit {
				info.gate = g
				info.label = "M"
			} else if qubit > g.Target {
				info.measureBelow = true
			}
			continue
		}

		qs := g.Qubits()
		lo, hi := span(*g)
		if qubit < lo || qubit > hi {
			continue
		}
		if slices.Contains(qs, qubit) {
			info.gate = g
			info.label, info.symbol = gateLabel(*g, qubit)
		} else {
			info.passThrough = true
		}
		info.vertAbove = qubit > lo
		info.vertBelow = qubit < hi
	}
	return info
}

// stepWidth returns the cell width needed for every label in a step.
func stepWidth(c Circuit, atStep []int) int {
	w := minCellW
	for _, idx := range atStep {
		g := c.Gates[idx]
		if g.Type == GateBarrier {
			continue
		}
		for _, q := range g.Qubits() {
			label, _ := gateLabel(g, q)
			w = max(w, lipgloss.Width(label)+4)
		}
	}
	if w%2 == 0 {
		w++
	}
	return w
}

// replaceRuneAt swaps the rune at visual position i of a plain string.
func replaceRuneAt(s string, i int, r rune) string {
	runes := []rune(s)
	if i >= 0 && i < len(runes) {
		runes[i] = r
	}
	return string(runes)
}

// renderCell returns 3 lines (top, mid, bot) for a single cell of width w.
func renderCell(info cellInfo, w int) (top, mid, bot string) {
	half := w / 2
	emptyRow := strings.Repeat(" ", w)
	vertRow := strings.Repeat(" ", half) + "│" + strings.Repeat(" ", w-half-1)
	dblVertRow := strings.Repeat(" ", half) + cbitConnectorStyle.Render("║") + strings.Repeat(" ", w-half-1)
	dashL := strings.Repeat("─", half)
	dashR := strings.Repeat("─", w-half-1)

	vert := func(on bool) string {
		if on {
			return vertRow
		}
		return emptyRow
	}

	switch {
	case info.isBarrier:
		top = strings.Repeat(" ", half) + dimStyle.Render("┊") + strings.Repeat(" ", w-half-1)
		mid = dashL + dimStyle.Render("┊") + dashR
		bot = top

	case info.gate != nil && info.symbol != "":
		top = vert(info.vertAbove)
		mid = dashL + gateStyle.Render(info.symbol) + dashR
		bot = vert(info.vertBelow)
		if info.measureBelow {
			bot = dblVertRow
		}

	case info.gate != nil:
		inner := lipgloss.Width(info.label)
		boxW := inner + 2
		margin := (w - boxW) / 2
		rightMargin := w - margin - boxW
		center := half - margin

		border := strings.Repeat("─", inner)
		boxTop := "┌" + border + "┐"
		boxBot := "└" + border + "┘"
		if info.vertAbove {
			boxTop = replaceRuneAt(boxTop, center, '┴')
		}
		if info.vertBelow {
			boxBot = replaceRuneAt(boxBot, center, '┬')
		}
		if info.gate.Type == GateMeasure || info.measureBelow {
			boxBot = replaceRuneAt(boxBot, center, '╥')
		}

		top = strings.Repeat(" ", margin) + gateStyle.Render(boxTop) + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+info.label+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gateStyle.Render(boxBot) + strings.Repeat(" ", rightMargin)

	case info.passThrough:
		top = vertRow
		mid = dashL + "┼" + dashR
		bot = vertRow
		if info.measureBelow {
			mid = dashL + cbitConnectorStyle.Render("╫") + dashR
			top, bot = dblVertRow, dblVertRow
		}

	case info.measureBelow:
		// No gate here, but a measurement connection passes through vertically
		top = dblVertRow
		mid = dashL + cbitConnectorStyle.Render("╫") + dashR
		bot = dblVertRow

	default:
		top = vert(info.vertAbove)
		mid = strings.Repeat("─", w)
		bot = vert(info.vertBelow)
	}
	return top, mid, bot
}

// RenderDiagram draws the circuit as box-drawing text, one three-line row per
// qubit and a single classical wire underneath. maxWidth folds the diagram
// into several blocks when it is positive and the circuit is wider.
func RenderDiagram(c Circuit, maxWidth int) string {
	steps := Schedule(c)
	depth := Depth(c)
	byStep := make([][]int, depth)
	widths := make([]int, depth)
	for s := range depth {
		byStep[s] = GatesAtStep(steps, s)
		widths[s] = stepWidth(c, byStep[s])
	}

	// Split the columns into blocks that fit maxWidth.
	var blocks [][2]int
	start, used := 0, labelVisualW
	for s := range depth {
		if maxWidth > 0 && s > start && used+widths[s] > maxWidth {
			blocks = append(blocks, [2]int{start, s})
			start, used = s, labelVisualW
		}
		used += widths[s]
	}
	blocks = append(blocks, [2]int{start, depth})

	var sb strings.Builder
	for bi, blk := range blocks {
		if bi > 0 {
			sb.WriteString("\n")
		}
		renderBlock(&sb, c, byStep, widths, blk[0], blk[1])
	}
	return sb.String()
}

func renderBlock(sb *strings.Builder, c Circuit, byStep [][]int, widths []int, from, to int) {
	for qubit := range c.NumQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		label := fmt.Sprintf("q[%d]", qubit)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-*s", labelVisualW-2, label)) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for s := from; s < to; s++ {
			top, mid, bot := renderCell(getCellInfo(c, byStep[s], qubit), widths[s])
			topLine += top
			midLine += mid
			botLine += bot
		}
		sb.WriteString(strings.TrimRight(topLine, " ") + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(strings.TrimRight(botLine, " ") + "\n")
	}

	if c.NumCbits == 0 {
		return
	}
	// Single classical wire showing count and measurement landing points
	label := fmt.Sprintf("c%d", c.NumCbits)
	cbitLine := cbitLabelStyle.Render(fmt.Sprintf("%-*s", labelVisualW-2, label)) + cbitWireStyle.Render("══")
	for s := from; s < to; s++ {
		w := widths[s]
		cbit := -1
		for _, idx := range byStep[s] {
			if c.Gates[idx].Type == GateMeasure {
				cbit = c.Gates[idx].Cbit
			}
		}
		if cbit < 0 {
			cbitLine += cbitWireStyle.Render(strings.Repeat("═", w))
			continue
		}
		bitLabel := fmt.Sprintf("%d", cbit)
		dashL := w / 2
		dashR := max(w-dashL-1-len(bitLabel), 0)
		cbitLine += cbitWireStyle.Render(strings.Repeat("═", dashL)) +
			cbitConnectorStyle.Render("╩"+bitLabel) +
			cbitWireStyle.Render(strings.Repeat("═", dashR))
	}
	sb.WriteString(cbitLine + "\n")
}

// RenderCounts draws a histogram of measurement outcomes, most frequent first.
func RenderCounts(counts MeasurementCounts) string {
	entries := counts.Sorted()
	if len(entries) == 0 {
		return dimStyle.Render("(no measurements)") + "\n"
	}
	shots := counts.Shots()
	top := entries[0].Count

	var sb strings.Builder
	for _, e := range entries {
		n := e.Count * barWidth / top
		pct := 100 * float64(e.Count) / float64(shots)
		fmt.Fprintf(&sb, "  |%s⟩ %s %d (%.1f%%)\n", e.Bits, barStyle.Render(strings.Repeat("█", max(n, 1))), e.Count, pct)
	}
	return sb.String()
}
