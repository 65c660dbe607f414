package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	stateMenu = iota
	stateParams
	stateDone
)

// Choice is what the picker hands back: a preset name and any parameters the
// user edited before starting.
type Choice struct {
	Preset string
	Params map[string]float64
}

// ParamNames lists the parameters the picker can edit, in display order.
var ParamNames = []string{"particles", "steps", "dt", "seed"}

// Picker is a small menu for choosing a preset and adjusting a few of its
// parameters before a live run.
type Picker struct {
	state       int
	cursor      int
	names       []string
	describe    func(string) string
	defaults    func(string) map[string]float64
	params      map[string]float64
	paramCursor int
	editing     bool
	editBuf     string
	choice      *Choice
}

// NewPicker lists names. describe and defaults may be nil.
func NewPicker(names []string, describe func(string) string, defaults func(string) map[string]float64) Picker {
	return Picker{names: names, describe: describe, defaults: defaults}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch p.state {
	case stateMenu:
		return p.menuKey(key)
	case stateParams:
		return p.paramKey(key)
	}
	return p, nil
}

func (p Picker) menuKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.names)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.names) == 0 {
			return p, nil
		}
		p.state, p.paramCursor = stateParams, 0
		p.params = make(map[string]float64, len(ParamNames))
		if p.defaults != nil {
			for k, v := range p.defaults(p.names[p.cursor]) {
				p.params[k] = v
			}
		}
	}
	return p, nil
}

func (p Picker) paramKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	name := ParamNames[p.paramCursor]
	if p.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(p.editBuf, 64); err == nil {
				p.params[name] = v
			}
			p.editing, p.editBuf = false, ""
		case "esc":
			p.editing, p.editBuf = false, ""
		case "backspace":
			if len(p.editBuf) > 0 {
				p.editBuf = p.editBuf[:len(p.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-e") {
				p.editBuf += s
			}
		}
		return p, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return p, tea.Quit
	case "q", "esc":
		p.state = stateMenu
	case "up", "k":
		if p.paramCursor > 0 {
			p.paramCursor--
		}
	case "down", "j":
		if p.paramCursor < len(ParamNames)-1 {
			p.paramCursor++
		}
	case "enter", " ":
		p.editing, p.editBuf = true, strconv.FormatFloat(p.params[name], 'g', -1, 64)
	case "s":
		p.choice = &Choice{Preset: p.names[p.cursor], Params: p.params}
		p.state = stateDone
		return p, tea.Quit
	}
	return p, nil
}

func (p Picker) View() string {
	st := newStyles(CurrentTheme)
	var b strings.Builder
	b.WriteString(st.header.Render("GRAVSIM") + "\n")

	switch p.state {
	case stateMenu:
		for i, name := range p.names {
			line := "  " + name
			style := st.value
			if i == p.cursor {
				line = "> " + name
				style = st.selected
			}
			if p.describe != nil {
				line = fmt.Sprintf("%-12s %s", line, st.label.Render(p.describe(name)))
			}
			b.WriteString(style.Render(line) + "\n")
		}
		b.WriteString(st.help.Render("J/K:Move Enter:Select Q:Quit"))
	case stateParams:
		b.WriteString(st.label.Render("preset ") + st.value.Render(p.names[p.cursor]) + "\n\n")
		for i, name := range ParamNames {
			val := strconv.FormatFloat(p.params[name], 'g', -1, 64)
			if i == p.paramCursor && p.editing {
				val = p.editBuf + "_"
			}
			prefix := "  "
			if i == p.paramCursor {
				prefix = "> "
			}
			b.WriteString(st.row(prefix+name, val))
		}
		b.WriteString(st.help.Render("Enter:Edit S:Start Esc:Back"))
	}
	return b.String()
}

// Choice returns the confirmed selection, or nil if the user quit.
func (p Picker) Choice() *Choice { return p.choice }

// RunPicker shows the picker and returns the user's choice. A nil choice
// with a nil error means the user quit without starting.
func RunPicker(names []string, describe func(string) string, defaults func(string) map[string]float64) (*Choice, error) {
	final, err := tea.NewProgram(NewPicker(names, describe, defaults)).Run()
	if err != nil {
		return nil, err
	}
	return final.(Picker).Choice(), nil
}
