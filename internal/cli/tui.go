package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railtrack/pkg/buildinfo"
	"github.com/matzehuels/railtrack/pkg/dag"
	errs "github.com/matzehuels/railtrack/pkg/errors"
	"github.com/matzehuels/railtrack/pkg/pipeline"
	"github.com/matzehuels/railtrack/pkg/render/terminal"
	"github.com/matzehuels/railtrack/pkg/source"
)

// Viewer styles
var (
	viewerCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewerHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	viewerErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	viewerKeyStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	viewerRuleStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

const viewerHelp = "j/k move  pgup/pgdn page  g/G top/bottom  enter set reference  h reset reference  d details  r reload  q quit"

// detailsDateLayout is used in the details pane when no --date-format is set.
const detailsDateLayout = "2006-01-02 15:04:05 -0700"

// tuiCommand creates the interactive viewer command.
func (c *CLI) tuiCommand() *cobra.Command {
	var (
		repo    repoFlags
		display displayFlags
	)

	cmd := &cobra.Command{
		Use:   "tui [path]",
		Short: "Browse the railway diagram interactively",
		Long: `Browse the railway diagram of a repository interactively.

Move with j/k or the arrow keys. Enter makes the selected commit the
reference, dimming everything that is not one of its ancestors; h resets it
to the reference the viewer started with, HEAD unless --ref names another.
d toggles a pane with the full id, author, date, parents and message of the
selected commit. r reloads the history, keeping the last good diagram on
screen if the reload fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, cmd, args, &repo)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.load(ctx)
			if err != nil {
				return err
			}
			m := newViewer(ctx, s, res, c.terminalOptions(cmd, &display), display.styles())
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	repo.register(cmd)
	display.register(cmd)

	return cmd
}

// =============================================================================
// viewerModel - Interactive railway viewer
// =============================================================================

// reloadedMsg carries a history fetched off the event loop.
type reloadedMsg struct {
	gen     pipeline.Generation
	records []dag.Record
	head    dag.ID
	refs    []source.Ref
	err     error
}

// viewerModel is the bubbletea model of the railway viewer. The diagram
// lives in a pipeline.State; the model only keeps the painted lines and the
// scroll position.
type viewerModel struct {
	ctx     context.Context
	session *session
	state   *pipeline.State
	opts    terminal.Options
	styles  terminal.Styles

	// head is the starting reference, restored with h.
	head dag.ID

	details bool // the commit details pane is open

	lines []terminal.Line
	nodes []int // indices of node lines in lines
	cols  int

	cursor int // index into nodes
	offset int // first visible line
	width  int
	height int

	loading bool
	status  string
}

func newViewer(ctx context.Context, s *session, res *pipeline.Result, opts terminal.Options, styles terminal.Styles) viewerModel {
	state := pipeline.NewState()
	state.Accept(state.Begin(), res)

	m := viewerModel{
		ctx:     ctx,
		session: s,
		state:   state,
		opts:    opts,
		styles:  styles,
		head:    res.Reference,
		width:   80,
		height:  24,
	}
	m.repaint("")
	return m
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.scrollToCursor()
	case reloadedMsg:
		m.handleReload(msg)
	}
	return m, nil
}

func (m viewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "pgup":
		m.move(-m.page())
	case "pgdown":
		m.move(m.page())
	case "g", "home":
		m.move(-len(m.nodes))
	case "G", "end":
		m.move(len(m.nodes))
	case "enter":
		if id, ok := m.selected(); ok {
			m.setReference(id)
		}
	case "h":
		m.setReference(m.head)
	case "d", "tab":
		m.details = !m.details
		m.scrollToCursor()
	case "r":
		if m.session != nil && !m.loading {
			m.loading = true
			m.status = ""
			return m, m.reload()
		}
	}
	return m, nil
}

// reload fetches the history in the background. The generation taken here
// lets the result be dropped if a newer update lands first.
func (m viewerModel) reload() tea.Cmd {
	gen := m.state.Begin()
	ctx, s := m.ctx, m.session
	return func() tea.Msg {
		records, head, refs, err := s.reload(ctx)
		return reloadedMsg{gen: gen, records: records, head: head, refs: refs, err: err}
	}
}

func (m *viewerModel) handleReload(msg reloadedMsg) {
	if m.state.Stale(msg.gen) {
		return
	}
	m.loading = false
	if msg.err != nil {
		m.state.Fail(msg.gen, msg.err)
		m.status = "reload failed: " + errs.UserMessage(msg.err)
		return
	}

	keep, _ := m.selected()
	ref := msg.head
	if cur := m.state.Current(); cur != nil && cur.Requested != m.head {
		ref = cur.Requested
	}
	if _, err := m.state.Apply(pipeline.HistoryUpdated{Records: msg.records, Reference: ref, Refs: msg.refs}); err != nil {
		m.status = "reload failed: " + errs.UserMessage(err)
		return
	}
	m.head = msg.head
	m.repaint(keep)
	m.status = fmt.Sprintf("reloaded %d commits", m.state.Current().Stats.Commits)
}

func (m *viewerModel) setReference(id dag.ID) {
	keep, _ := m.selected()
	if _, err := m.state.Apply(pipeline.ReferenceChanged{Reference: id}); err != nil {
		m.status = errs.UserMessage(err)
		return
	}
	m.status = ""
	m.repaint(keep)
}

// repaint paints the current result and puts the cursor back on keep when
// it is still part of the diagram.
func (m *viewerModel) repaint(keep dag.ID) {
	res := m.state.Current()
	if res == nil {
		return
	}
	opts := m.opts
	opts.Decorations = res.Decorations()
	m.lines = terminal.Paint(res.Graph, res.Layout, opts)
	m.cols = max(2*res.Layout.Width-1, 0)

	m.nodes = nil
	for i, l := range m.lines {
		if !l.Edge {
			m.nodes = append(m.nodes, i)
		}
	}

	if keep != "" {
		for i, li := range m.nodes {
			if m.lines[li].Node.ID == keep {
				m.cursor = i
				break
			}
		}
	}
	m.cursor = min(m.cursor, max(len(m.nodes)-1, 0))
	m.scrollToCursor()
}

func (m *viewerModel) selected() (dag.ID, bool) {
	if m.cursor < 0 || m.cursor >= len(m.nodes) {
		return "", false
	}
	return m.lines[m.nodes[m.cursor]].Node.ID, true
}

func (m *viewerModel) move(delta int) {
	if len(m.nodes) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.nodes)-1)
	m.scrollToCursor()
}

// bodyHeight is the number of diagram lines on screen, leaving room for
// the header, the details pane and the status line.
func (m viewerModel) bodyHeight() int {
	return max(m.height-2-m.detailsHeight(), 1)
}

// detailsHeight is the number of lines the details pane takes, rule
// included. The pane never takes more than half the screen.
func (m viewerModel) detailsHeight() int {
	if !m.details {
		return 0
	}
	return min(len(m.detailsLines())+1, max(m.height/2, 2))
}

// detailsLines describes the selected commit, one screen line per entry.
func (m viewerModel) detailsLines() []string {
	res := m.state.Current()
	id, ok := m.selected()
	if res == nil || !ok {
		return []string{StyleDim.Render("no commit selected")}
	}
	n, ok := res.Graph.Node(id)
	if !ok {
		return []string{StyleDim.Render("no commit selected")}
	}

	field := func(k, v string) string { return viewerKeyStyle.Render(k) + " " + v }
	layout := m.opts.DateFormat
	if layout == "" {
		layout = detailsDateLayout
	}

	parents := "none"
	if len(n.Parents) > 0 {
		parents = joinShort(n.Parents)
	}
	lines := []string{
		field("commit ", string(n.ID)),
		field("author ", n.Author),
		field("date   ", n.Time.Format(layout)),
		field("parents", parents),
	}
	if n.Truncated() {
		lines = append(lines, field("missing", joinShort(n.Boundary)+" (history truncated)"))
	}
	if refs := res.Decorations()[n.ID]; len(refs) > 0 {
		lines = append(lines, field("refs   ", strings.Join(refs, ", ")))
	}

	lines = append(lines, "")
	msg := strings.TrimRight(n.Message, "\n")
	if m.width > 2 {
		msg = ansi.Wrap(msg, m.width-2, "")
	}
	for l := range strings.SplitSeq(msg, "\n") {
		lines = append(lines, "  "+l)
	}
	return lines
}

func joinShort(ids []dag.ID) string {
	short := make([]string, len(ids))
	for i, id := range ids {
		short[i] = shortID(id)
	}
	return strings.Join(short, ", ")
}

// page is the cursor step for pgup/pgdn, in commits.
func (m viewerModel) page() int {
	return max(m.bodyHeight()/2, 1)
}

func (m *viewerModel) scrollToCursor() {
	if len(m.nodes) == 0 {
		m.offset = 0
		return
	}
	line := m.nodes[m.cursor]
	h := m.bodyHeight()
	if line < m.offset {
		m.offset = line
	}
	if line >= m.offset+h {
		m.offset = line - h + 1
	}
	m.offset = min(m.offset, max(len(m.lines)-h, 0))
}

func (m viewerModel) View() string {
	var b strings.Builder

	res := m.state.Current()
	title := appName + " " + buildinfo.Short()
	if m.session != nil {
		title += "  " + m.session.store.Path()
	}
	b.WriteString(StyleTitle.Render(title))
	if res != nil {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  %d commits", res.Stats.Commits)))
		if res.Reference != "" {
			b.WriteString(StyleDim.Render("  reference " + shortID(res.Reference)))
		}
	}
	b.WriteString("\n")

	end := min(m.offset+m.bodyHeight(), len(m.lines))
	cur := -1
	if len(m.nodes) > 0 {
		cur = m.nodes[m.cursor]
	}
	for i := m.offset; i < end; i++ {
		prefix := "  "
		if i == cur {
			prefix = viewerCursorStyle.Render("▸ ")
		}
		line := prefix + m.styles.Format(m.lines[i], m.cols)
		b.WriteString(ansi.Truncate(line, m.width, "…"))
		b.WriteString("\n")
	}
	for i := end - m.offset; i < m.bodyHeight(); i++ {
		b.WriteString("\n")
	}

	if h := m.detailsHeight(); h > 0 {
		b.WriteString(viewerRuleStyle.Render(strings.Repeat("─", max(m.width, 1))))
		b.WriteString("\n")
		for _, l := range m.detailsLines()[:h-1] {
			b.WriteString(ansi.Truncate(l, m.width, "…"))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.statusLine())
	return b.String()
}

func (m viewerModel) statusLine() string {
	switch {
	case m.loading:
		return viewerHelpStyle.Render("reloading…")
	case m.state.Err() != nil && m.status != "":
		return viewerErrorStyle.Render(m.status)
	case m.status != "":
		return viewerHelpStyle.Render(m.status)
	}
	return viewerHelpStyle.Render(ansi.Truncate(viewerHelp, m.width, "…"))
}
