// Package picker is a filterable terminal list for choosing a catalog model.
package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/promptcfg/cmd/promptcfg/internal/format"
	"github.com/germanamz/promptcfg/cmd/promptcfg/internal/styles"
	"github.com/germanamz/promptcfg/pkg/catalog"
	pformat "github.com/germanamz/promptcfg/pkg/format"
)

const defaultMaxShow = 10

// Model is the bubbletea model of the picker.
type Model struct {
	input    textinput.Model
	models   []catalog.Model
	filtered []catalog.Model
	cursor   int
	offset   int
	maxShow  int
	width    int

	chosen    string
	cancelled bool
}

// New returns a picker over models with the cursor on current when present.
func New(models []catalog.Model, current string) Model {
	ti := textinput.New()
	ti.Placeholder = "type to filter models"
	ti.CharLimit = 128
	ti.Width = 40
	ti.Focus()

	m := Model{
		input:   ti,
		models:  models,
		maxShow: defaultMaxShow,
		width:   80,
	}
	m.applyFilter()

	for i, mod := range m.filtered {
		if mod.ID == current {
			m.cursor = i
			m.scroll()
			break
		}
	}

	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles navigation keys and forwards the rest to the filter input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Height > 6 {
			m.maxShow = min(defaultMaxShow, msg.Height-6)
		}
		m.scroll()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if sel, ok := m.selected(); ok {
				m.chosen = sel.ID
				return m, tea.Quit
			}
			return m, nil
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
				m.scroll()
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				m.scroll()
			}
			return m, nil
		}
	}

	prev := m.input.Value()

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if m.input.Value() != prev {
		m.cursor = 0
		m.offset = 0
		m.applyFilter()
	}

	return m, cmd
}

// View renders the filter input and the visible window of matches.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(styles.TitleStyle.Render("Select a model"))
	sb.WriteString("\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n\n")

	if len(m.filtered) == 0 {
		sb.WriteString(styles.PickerDimStyle.Render("no matching models"))
	}

	idWidth := max(20, m.width/2-4)
	end := min(m.offset+m.maxShow, len(m.filtered))
	for i := m.offset; i < end; i++ {
		mod := m.filtered[i]

		line := fmt.Sprintf("%s %s",
			format.PadRight(format.Truncate(mod.ID, idWidth), idWidth),
			styles.PickerTagStyle.Render(pformat.ContextLength(mod.ContextLength)),
		)

		if i == m.cursor {
			sb.WriteString(styles.PickerCurStyle.Render("› " + line))
		} else {
			sb.WriteString(styles.PickerDimStyle.Render("  " + line))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(styles.PickerHintStyle.Render(fmt.Sprintf("%d/%d  ↑/↓ move  enter select  esc cancel", len(m.filtered), len(m.models))))

	return styles.PickerBorder.Render(sb.String())
}

// Chosen returns the selected model id. ok is false when the picker was
// cancelled or nothing was selected.
func (m Model) Chosen() (string, bool) {
	if m.cancelled || m.chosen == "" {
		return "", false
	}
	return m.chosen, true
}

func (m *Model) applyFilter() {
	m.filtered = catalog.Search(m.models, m.input.Value())
}

func (m Model) selected() (catalog.Model, bool) {
	if len(m.filtered) == 0 {
		return catalog.Model{}, false
	}
	return m.filtered[m.cursor], true
}

// scroll keeps the cursor inside the visible window.
func (m *Model) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.maxShow {
		m.offset = m.cursor - m.maxShow + 1
	}
}

// Run shows the picker on the terminal and returns the chosen id.
func Run(models []catalog.Model, current string) (string, bool, error) {
	final, err := tea.NewProgram(New(models, current)).Run()
	if err != nil {
		return "", false, fmt.Errorf("picker: %w", err)
	}

	id, ok := final.(Model).Chosen()

	return id, ok, nil
}
