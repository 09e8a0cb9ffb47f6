package main

import (
	"fmt"
	"strings"
)

// menuCategory groups demos under a tab.
type menuCategory struct {
	name  string
	items []Demo
}

// demoMenu groups demos by category, keeping first-seen order.
func demoMenu(demos []Demo) []menuCategory {
	var cats []menuCategory
	index := make(map[string]int)
	for _, d := range demos {
		i, ok := index[d.Category]
		if !ok {
			i = len(cats)
			index[d.Category] = i
			cats = append(cats, menuCategory{name: d.Category})
		}
		cats[i].items = append(cats[i].items, d)
	}
	return cats
}

// demoSymbol summarises a demo circuit for the menu: its qubit count and
// gate count.
func demoSymbol(d Demo) string {
	return fmt.Sprintf("%dq %dg", d.Circuit.NumQubits, len(d.Circuit.Gates))
}

// renderMenu renders the demo picker.
func (m Browser) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Demos"))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range m.menu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeGateStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(m.menu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 30)))
	sb.WriteString("\n")

	// Items in the selected category
	for i, d := range m.menu[m.menuCat].items {
		if i == m.menuItem && m.focus == focusMenu {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-14s", d.Key)))
			sb.WriteString(gateStyle.Render(demoSymbol(d)))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-14s", d.Key)))
			sb.WriteString(dimStyle.Render(demoSymbol(d)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Run"))

	return menuBorderStyle.Render(sb.String())
}
