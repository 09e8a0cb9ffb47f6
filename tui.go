package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// focus represents which panel has keyboard input.
type focus int

const (
	focusMenu focus = iota
	focusQASM
)

// Browser is the bubbletea model behind "shorcirq browse".
type Browser struct {
	menu     []menuCategory
	menuCat  int
	menuItem int

	sim   Simulator
	shots int

	title     string
	expected  string
	circuit   Circuit
	counts    MeasurementCounts
	runErr    error
	statusMsg string // transient status message (e.g. save confirmation)

	qasmEditor textarea.Model
	lastQASM   string
	focus      focus
	width      int
	height     int
}

func newBrowser(sim Simulator, shots int) Browser {
	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)

	m := Browser{
		menu:       demoMenu(Demos()),
		sim:        sim,
		shots:      shots,
		qasmEditor: ta,
		focus:      focusMenu,
	}
	m.selectDemo()
	return m
}

// selected returns the demo under the menu cursor.
func (m Browser) selected() Demo {
	return m.menu[m.menuCat].items[m.menuItem]
}

// selectDemo loads the demo under the cursor into the circuit and QASM panels.
func (m *Browser) selectDemo() {
	d := m.selected()
	m.title = d.Title
	m.expected = d.Expected
	m.circuit = d.Circuit
	m.counts = nil
	m.runErr = nil

	qasm := ToQASM(d.Circuit)
	m.qasmEditor.SetValue(qasm)
	m.lastQASM = qasm
}

// parseQASMInput replaces the circuit when the edited QASM parses.
func (m *Browser) parseQASMInput() {
	qasm := m.qasmEditor.Value()
	if qasm == m.lastQASM {
		return
	}
	m.lastQASM = qasm
	c, err := ParseQASM(qasm)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.statusMsg = ""
	m.title = "Custom circuit"
	m.expected = ""
	m.circuit = c
	m.counts = nil
	m.runErr = nil
}

// run simulates the current circuit.
func (m *Browser) run() {
	m.counts, m.runErr = m.sim.Run(m.circuit, m.shots)
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Browser) Init() tea.Cmd {
	return nil
}

func (m Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.qasmEditor.SetWidth(max(msg.Width/3-6, 20))
		m.qasmEditor.SetHeight(max(msg.Height-14, 4))

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusMenu:
			m.statusMsg = ""
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusQASM
				cmds = append(cmds, m.qasmEditor.Focus())
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
					m.selectDemo()
				}
			case "down", "j":
				if m.menuItem < len(m.menu[m.menuCat].items)-1 {
					m.menuItem++
					m.selectDemo()
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
					m.selectDemo()
				}
			case "right", "l":
				if m.menuCat < len(m.menu)-1 {
					m.menuCat++
					m.menuItem = 0
					m.selectDemo()
				}
			case "enter", "r":
				m.run()
			case "ctrl+s":
				if err := os.WriteFile("circuit.qasm", []byte(ToQASM(m.circuit)), 0644); err != nil {
					m.statusMsg = fmt.Sprintf("Save error: %v", err)
				} else {
					m.statusMsg = "Saved circuit.qasm"
				}
			}

		case focusQASM:
			switch key {
			case "tab", "esc":
				m.focus = focusMenu
				m.qasmEditor.Blur()
			default:
				var cmd tea.Cmd
				m.qasmEditor, cmd = m.qasmEditor.Update(msg)
				cmds = append(cmds, cmd)
				m.parseQASMInput()
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Browser) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	menuPanel := m.renderMenu()
	menuWidth := lipgloss.Width(menuPanel)
	qasmWidth := m.width / 3
	circuitWidth := max(m.width-menuWidth-qasmWidth-4, 20)
	controlsHeight := 4
	panelHeight := max(m.height-controlsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, panelHeight)
	qasmPanel := m.renderQASMPanel(qasmWidth, panelHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, menuPanel, circuitPanel, qasmPanel)
	return lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)
}

// renderCircuitPanel renders the diagram and, once run, the counts.
func (m Browser) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s\n\n", dimStyle.Render(fmt.Sprintf("%d qubits, %d gates, depth %d",
		m.circuit.NumQubits, len(m.circuit.Gates), Depth(m.circuit))))
	sb.WriteString(RenderDiagram(m.circuit, width-4))

	if m.expected != "" {
		fmt.Fprintf(&sb, "\nExpected: %s\n", m.expected)
	}
	switch {
	case m.runErr != nil:
		sb.WriteString("\n" + failureStyle.Render(m.runErr.Error()) + "\n")
	case m.counts != nil:
		fmt.Fprintf(&sb, "\nResults (%d shots):\n", m.counts.Shots())
		sb.WriteString(RenderCounts(m.counts))
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderQASMPanel renders the QASM editor.
func (m Browser) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	title := "QASM Editor"
	if m.focus == focusQASM {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.qasmEditor.View())

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Browser) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Demo  ←→/hl Category  Tab QASM editor")
	sb.WriteString("    ")
	sb.WriteString(activeGateStyle.Render("⏎/r"))
	sb.WriteString(" Run\n")

	if m.statusMsg != "" {
		sb.WriteString(activeGateStyle.Render(m.statusMsg))
	} else {
		sb.WriteString(activeGateStyle.Render("Actions:  "))
		sb.WriteString("^S Save circuit.qasm  q/^C Quit")
	}

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}
