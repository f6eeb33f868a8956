package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/halcyonlab/clr-metadata/metadata"
	"github.com/halcyonlab/clr-metadata/token"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	tableStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	tokenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse metadata tables interactively",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("browse needs a terminal; use 'types' for plain output")
			}
			m, err := openSample()
			if err != nil {
				return err
			}
			p := tea.NewProgram(newBrowseModel(m), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

type browseState int

const (
	stateSelectTable browseState = iota
	stateListRows
)

type tableInfo struct {
	table token.Table
	count int
}

type rowInfo struct {
	tok  token.Token
	text string
}

type browseModel struct {
	mod      *metadata.Module
	tables   []tableInfo
	rows     []rowInfo
	filter   textinput.Model
	selected int
	state    browseState
}

func newBrowseModel(m *metadata.Module) *browseModel {
	var tables []tableInfo
	for t := token.Table(0); t <= token.TableCustomDebugInformation; t++ {
		if n := countRows(m, t); n > 0 {
			tables = append(tables, tableInfo{table: t, count: n})
		}
	}
	return &browseModel{mod: m, tables: tables, state: stateSelectTable}
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateSelectTable {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectTable && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectTable && m.selected < len(m.tables)-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateSelectTable && len(m.tables) > 0 {
				m.loadRows(m.tables[m.selected].table)
				m.state = stateListRows
			}

		case "esc":
			if m.state == stateListRows {
				m.state = stateSelectTable
				m.rows = nil
			}
		}
	}

	if m.state == stateListRows {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *browseModel) loadRows(table token.Table) {
	m.rows = nil
	m.mod.EnumerateTokens(table, func(e metadata.Entity) bool {
		m.rows = append(m.rows, rowInfo{
			tok:  metadata.TokenOf(e),
			text: describeEntity(e),
		})
		return true
	})

	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.Width = 40
	ti.Focus()
	m.filter = ti
}

func describeEntity(e metadata.Entity) string {
	switch v := e.(type) {
	case *metadata.TypeDef:
		return v.FullName()
	case *metadata.TypeRef:
		return v.FullName()
	case *metadata.AssemblyRef:
		if v.Version != nil {
			return fmt.Sprintf("%s, Version=%s", v.Name, v.Version)
		}
		return v.Name
	case *metadata.CustomAttribute:
		return v.TypeFullName
	case *metadata.Module:
		return v.Name()
	default:
		return fmt.Sprintf("%T", e)
	}
}

func (m *browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Metadata Browser"))
	b.WriteString(" ")
	b.WriteString(m.mod.Name())
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectTable:
		if len(m.tables) == 0 {
			b.WriteString(errorStyle.Render("no tables with rows"))
			b.WriteString("\n\n")
			b.WriteString(helpStyle.Render("q quit"))
			break
		}
		b.WriteString("Select a table:\n\n")
		for i, ti := range m.tables {
			line := fmt.Sprintf("%-24s %d rows", tableStyle.Render(ti.table.String()), ti.count)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • q quit"))

	case stateListRows:
		ti := m.tables[m.selected]
		b.WriteString(fmt.Sprintf("Table %s\n\n", tableStyle.Render(ti.table.String())))
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")

		needle := strings.ToLower(m.filter.Value())
		shown := 0
		for _, row := range m.rows {
			if needle != "" && !strings.Contains(strings.ToLower(row.text), needle) {
				continue
			}
			b.WriteString(tokenStyle.Render(fmt.Sprintf("0x%08X", uint32(row.tok))))
			b.WriteString("  ")
			b.WriteString(row.text)
			b.WriteString("\n")
			shown++
		}
		if shown == 0 {
			b.WriteString(helpStyle.Render("no rows match"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("type to filter • esc back • ctrl+c quit"))
	}

	return b.String()
}
