package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wippyai/encconv/config"
	"github.com/wippyai/encconv/converter"
	"github.com/wippyai/encconv/encoding"
)

func newBrowseCmd(opts *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Pick encodings and try conversions interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(newBrowseModel(opts), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}

type browseState int

const (
	stateSelectSource browseState = iota
	stateSelectDest
	stateInput
	stateShowResult
)

type browseModel struct {
	opts     *config.Options
	sources  []string
	dests    []string
	input    textinput.Model
	result   conversion
	selected int
	src, dst string
	state    browseState
}

// conversion is what one run of the converter produced.
type conversion struct {
	path    []string
	in, out []byte
	errinfo [5]any
	putback []byte
	err     error
}

type resultMsg conversion

func newBrowseModel(opts *config.Options) *browseModel {
	var names []string
	for _, e := range encoding.All() {
		names = append(names, e.Name)
	}
	return &browseModel{opts: opts, sources: names, state: stateSelectSource}
}

func (m *browseModel) Init() tea.Cmd { return nil }

func (m *browseModel) list() []string {
	if m.state == stateSelectDest {
		return m.dests
	}
	return m.sources
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInput {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state <= stateSelectDest && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state <= stateSelectDest && m.selected < len(m.list())-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectSource:
				m.src = m.sources[m.selected]
				m.dests = converter.AvailableDestinations(m.src)
				m.selected = 0
				m.state = stateSelectDest
			case stateSelectDest:
				if len(m.dests) == 0 {
					return m, nil
				}
				m.dst = m.dests[m.selected]
				m.prepareInput()
				m.state = stateInput
				return m, textinput.Blink
			case stateInput:
				return m, m.convert
			case stateShowResult:
				m.state = stateInput
				m.input.Focus()
			}
			return m, nil

		case "esc":
			switch m.state {
			case stateSelectDest:
				m.state = stateSelectSource
				m.selected = 0
			case stateInput, stateShowResult:
				m.state = stateSelectDest
				m.selected = 0
			}
			return m, nil
		}

	case resultMsg:
		m.result = conversion(msg)
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *browseModel) prepareInput() {
	ti := textinput.New()
	ti.Placeholder = `text, \xNN escapes allowed`
	ti.Prompt = m.src + ": "
	ti.Width = 50
	ti.Focus()
	m.input = ti
}

// sourceBytes reads the input as a Go string literal body when it parses as
// one, so raw bytes can be typed as \xNN.
func sourceBytes(s string) []byte {
	if u, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return []byte(u)
	}
	return []byte(s)
}

func (m *browseModel) convert() tea.Msg {
	r := conversion{in: sourceBytes(m.input.Value())}
	c, err := converter.New(m.src, m.dst, m.opts.ConverterOptions()...)
	if err != nil {
		r.err = err
		return resultMsg(r)
	}
	defer c.Close()

	for _, st := range c.Convpath() {
		r.path = append(r.path, st.String())
	}
	dst := converter.NewBuffer(nil, nil)
	if _, err := c.PrimitiveConvert(converter.NewBuffer(c.Source(), r.in), dst, 0, -1, 0); err != nil {
		r.err = err
	}
	r.out = dst.Bytes()
	r.errinfo = c.Errinfo()
	r.putback = c.PutbackAll().Bytes()
	return resultMsg(r)
}

func (m *browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("encconv"))
	if m.src != "" {
		b.WriteString(" " + encStyle.Render(m.src))
	}
	if m.dst != "" && m.state >= stateInput {
		b.WriteString(" → " + dstStyle.Render(m.dst))
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectSource, stateSelectDest:
		if m.state == stateSelectSource {
			b.WriteString("Select a source encoding:\n\n")
		} else {
			b.WriteString("Select a destination:\n\n")
		}
		m.writeList(&b)
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter choose • esc back • q quit"))

	case stateInput:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter convert • esc back • ctrl+c quit"))

	case stateShowResult:
		m.writeResult(&b)
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter edit • esc back • q quit"))
	}
	return b.String()
}

// writeList shows a window of the current list around the selection.
func (m *browseModel) writeList(b *strings.Builder) {
	const window = 15
	items := m.list()
	if len(items) == 0 {
		b.WriteString(errorStyle.Render("no conversions"))
		b.WriteString("\n")
		return
	}
	start := max(0, min(m.selected-window/2, len(items)-window))
	end := min(len(items), start+window)
	for i := start; i < end; i++ {
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + items[i]))
		} else {
			b.WriteString("  " + items[i])
		}
		b.WriteString("\n")
	}
}

func (m *browseModel) writeResult(b *strings.Builder) {
	r := m.result
	if len(r.path) > 0 {
		fmt.Fprintf(b, "path:    %s\n", strings.Join(r.path, " | "))
	}
	fmt.Fprintf(b, "input:   % x\n", r.in)
	if r.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", r.err)))
		return
	}
	fmt.Fprintf(b, "output:  %s\n", resultStyle.Render(fmt.Sprintf("% x", r.out)))
	fmt.Fprintf(b, "errinfo: %s\n", formatErrinfo(r.errinfo))
	if len(r.putback) > 0 {
		fmt.Fprintf(b, "putback: % x\n", r.putback)
	}
}

func formatErrinfo(info [5]any) string {
	parts := make([]string, len(info))
	for i, v := range info {
		switch v := v.(type) {
		case nil:
			parts[i] = "-"
		case []byte:
			parts[i] = fmt.Sprintf("%q", v)
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	s := strings.Join(parts, " ")
	if info[1] != nil {
		return errorStyle.Render(s)
	}
	return s
}
