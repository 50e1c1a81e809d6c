package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
	"github.com/spf13/cobra"

	"sbpf/internal/decompiler"
	"sbpf/internal/lifter"
	"sbpf/internal/program"
	"sbpf/internal/sbpf/log"
	"sbpf/internal/sbpf/styles"
	"sbpf/internal/ui/colorize"
)

var viewCmd = &cobra.Command{
	Use:   "view <binary>",
	Short: "Browse pseudocode, assembly and blocks interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := configFromFlags(cmd)
		log.Setup(c.Verbose, c.Debug)

		p := tea.NewProgram(
			newModel(args[0]),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		_, err := p.Run()
		return err
	},
}

type viewMode int

const (
	viewPseudocode viewMode = iota
	viewAssembly
	viewBlocks
)

type decompiledMsg struct {
	res *decompiler.Result
	err error
}

func decompileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		bin, err := program.Load(path)
		if err != nil {
			return decompiledMsg{err: err}
		}
		return decompiledMsg{res: decompiler.Run(bin)}
	}
}

type blockItem struct {
	address  uint64
	function string
	insts    int
	succs    []uint64
}

func (i blockItem) FilterValue() string {
	return fmt.Sprintf("%x %s", i.address, i.function)
}

func blockItems(prog *lifter.Program) []list.Item {
	owner := make(map[uint64]string)
	for _, fn := range prog.Functions {
		for _, addr := range fn.Blocks {
			if _, ok := owner[addr]; !ok {
				owner[addr] = fn.Name
			}
		}
	}

	items := make([]list.Item, 0, len(prog.Blocks))
	for _, b := range prog.Blocks {
		items = append(items, blockItem{
			address:  b.Address,
			function: owner[b.Address],
			insts:    len(b.Insts),
			succs:    b.Successors,
		})
	}
	return items
}

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(blockItem)
	if !ok {
		return
	}

	indicator := " "
	addrStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(styles.Address))
	if index == m.Index() {
		indicator = ">"
		addrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(charmtone.Charple.Hex()))
	}
	fnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(styles.Function))

	var edges []string
	for _, s := range i.succs {
		edges = append(edges, fmt.Sprintf("0x%x", s))
	}

	fmt.Fprintf(w, " %s  %s  %-16s %3d insts  %s",
		indicator,
		addrStyle.Render(fmt.Sprintf("0x%06x", i.address)),
		fnStyle.Render(i.function),
		i.insts,
		strings.Join(edges, ", "))
}

type model struct {
	path     string
	res      *decompiler.Result
	err      error
	loading  bool
	mode     viewMode
	viewport viewport.Model
	blocks   list.Model
	spinner  spinner.Model
	width    int
	height   int
}

func newModel(path string) model {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(22)

	blocks := list.New([]list.Item{}, itemDelegate{}, 80, 22)
	blocks.Title = "Blocks"
	blocks.SetShowStatusBar(false)
	blocks.SetFilteringEnabled(true)
	blocks.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color(styles.Keyword)).
		MarginLeft(2)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(charmtone.Charple.Hex()))

	return model{
		path:     path,
		loading:  true,
		mode:     viewPseudocode,
		viewport: vp,
		blocks:   blocks,
		spinner:  s,
		width:    80,
		height:   24,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		decompileCmd(m.path),
		m.spinner.Tick,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case decompiledMsg:
		m.loading = false
		m.res, m.err = msg.res, msg.err
		if m.res != nil {
			m.blocks.SetItems(blockItems(m.res.Program))
		}
		m.updateContent()
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.SetWidth(msg.Width)
		m.viewport.SetHeight(msg.Height - 2)
		m.blocks.SetWidth(msg.Width)
		m.blocks.SetHeight(msg.Height - 2)
		return m, nil

	case tea.KeyMsg:
		// Let the list consume keys while its filter is open.
		if m.mode == viewBlocks && m.blocks.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.mode = (m.mode + 1) % 3
			m.updateContent()
			return m, nil
		case "shift+tab":
			m.mode = (m.mode + 2) % 3
			m.updateContent()
			return m, nil
		case "p":
			m.mode = viewPseudocode
			m.updateContent()
			return m, nil
		case "a":
			m.mode = viewAssembly
			m.updateContent()
			return m, nil
		case "b":
			m.mode = viewBlocks
			return m, nil
		case "enter":
			if m.mode == viewBlocks {
				if item, ok := m.blocks.SelectedItem().(blockItem); ok {
					m.mode = viewAssembly
					m.updateContent()
					m.viewport.SetYOffset(m.assemblyLine(item.address))
				}
				return m, nil
			}
		}
	}

	switch m.mode {
	case viewBlocks:
		m.blocks, cmd = m.blocks.Update(msg)
	default:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// assemblyLine returns the listing line of the instruction at addr.
func (m model) assemblyLine(addr uint64) int {
	if m.res == nil {
		return 0
	}
	for i, in := range m.res.Assembly {
		if in.Address >= addr {
			return i
		}
	}
	return 0
}

func (m *model) updateContent() {
	switch {
	case m.loading:
		return
	case m.err != nil:
		m.viewport.SetContent(lipgloss.NewStyle().
			Foreground(lipgloss.Color(charmtone.Cherry.Hex())).
			Render(fmt.Sprintf("Error: %v", m.err)))
		return
	}

	var content string
	switch m.mode {
	case viewAssembly:
		content, _ = colorize.Assembly(m.res.Assembly.String())
	default:
		content, _ = colorize.Pseudocode(m.res.Pseudocode)
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func (m model) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s Decompiling %s...\n", m.spinner.View(), m.path)
	}

	var content, menu string
	switch m.mode {
	case viewBlocks:
		content = m.blocks.View()
		menu = " Enter: show assembly • /: filter • Tab: cycle • Q: quit "
	case viewAssembly:
		content = m.viewport.View()
		menu = " P: pseudocode • B: blocks • Tab: cycle • Q: quit "
	default:
		content = m.viewport.View()
		menu = " A: assembly • B: blocks • Tab: cycle • Q: quit "
	}

	menuStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return content + "\n" + menuStyle.Render(menu)
}
