// Package browse is the interactive country browser: a searchable,
// region-filtered list with a detail panel, saved-country toggling and view
// counting.
package browse

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/wherein/pkg/country"
	"tableflip.dev/wherein/pkg/printers"
	"tableflip.dev/wherein/pkg/profile"
	"tableflip.dev/wherein/pkg/saved"
	"tableflip.dev/wherein/pkg/session"
	"tableflip.dev/wherein/pkg/store"
	"tableflip.dev/wherein/pkg/tui/theme"
	"tableflip.dev/wherein/pkg/viewcount"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeDetail
	modeHelp
)

const (
	allRegions  = "All"
	chromeLines = 6
	minWidth    = 40
)

type (
	savedRefreshedMsg struct{ err error }
	savedChangedMsg   saved.Changed
	toggledMsg        struct {
		name  string
		state saved.Membership
		err   error
	}
	viewedMsg struct {
		name    string
		display viewcount.Display
		err     error
	}
	profileMsg struct {
		greeting string
		draft    bool
		err      error
	}
	draftMsg struct {
		event store.Event
		ok    bool
	}
)

// Model is the Bubble Tea model of the browser.
type Model struct {
	sess  *session.Session
	ctx   context.Context
	log   *slog.Logger
	theme theme.Theme

	mode    mode
	back    mode
	search  string
	regions []string
	region  int
	list    []country.Country
	cursor  int
	offset  int

	detail    *country.Country
	neighbors []country.Country
	nbCursor  int

	// toggling holds names whose toggle command has been issued but whose
	// result has not arrived yet.
	toggling map[string]bool

	greeting     string
	draftPending bool
	status       string
	failed       bool

	width  int
	height int

	help      string
	helpWidth int

	drafts <-chan store.Event
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// WithTheme overrides the default theme.
func WithTheme(t theme.Theme) Option {
	return func(m *Model) {
		m.theme = t
	}
}

// WithDraftEvents makes the model follow draft changes written by other
// invocations.
func WithDraftEvents(ch <-chan store.Event) Option {
	return func(m *Model) {
		m.drafts = ch
	}
}

// New builds the browser over sess.
func New(ctx context.Context, sess *session.Session, opts ...Option) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := &Model{
		sess:     sess,
		ctx:      ctx,
		toggling: make(map[string]bool),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		theme:    theme.Default(),
		regions:  append([]string{allRegions}, sess.Regions()...),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.applyFilter()
	return m
}

// Init loads the saved set and the profile greeting, and starts listening
// for saved-set and draft changes.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.refreshCmd(), m.profileCmd(), m.waitSavedCmd()}
	if m.drafts != nil {
		cmds = append(cmds, m.waitDraftCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
		return m, nil

	case tea.KeyPressMsg:
		switch m.mode {
		case modeSearch:
			return m, m.updateSearch(msg)
		case modeDetail:
			return m, m.updateDetail(msg)
		case modeHelp:
			return m, m.updateHelp(msg)
		default:
			return m, m.updateList(msg)
		}

	case savedRefreshedMsg:
		if msg.err != nil {
			m.setError("saved countries unavailable")
		}
		return m, nil

	case savedChangedMsg:
		return m, m.waitSavedCmd()

	case toggledMsg:
		m.applyToggle(msg)
		return m, nil

	case viewedMsg:
		if msg.err != nil {
			m.log.Debug("view count failed", "country", msg.name, "err", msg.err)
		}
		return m, nil

	case profileMsg:
		if msg.err != nil {
			m.log.Debug("profile unavailable", "err", msg.err)
		}
		if msg.greeting != "" {
			m.greeting = msg.greeting
		}
		m.draftPending = msg.draft
		return m, nil

	case draftMsg:
		if !msg.ok {
			m.drafts = nil
			return m, nil
		}
		if msg.event.Type == store.EventDraftsInvalidated || msg.event.Key == profile.DraftKey {
			return m, tea.Batch(m.draftStatusCmd(), m.waitDraftCmd())
		}
		return m, m.waitDraftCmd()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "/":
		m.mode = modeSearch
	case "tab":
		m.cycleRegion(1)
	case "shift+tab":
		m.cycleRegion(-1)
	case "esc":
		if m.search != "" {
			m.search = ""
			m.applyFilter()
		}
	case "enter":
		if c, ok := m.Selected(); ok {
			return m.open(c)
		}
	case "s", "space", " ":
		if c, ok := m.Selected(); ok {
			return m.toggle(c.CommonName())
		}
	case "?":
		m.openHelp()
	case "r":
		m.status = "refreshing saved countries…"
		m.failed = false
		return m.refreshCmd()
	}
	return nil
}

func (m *Model) updateSearch(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		m.search = ""
		m.mode = modeList
		m.applyFilter()
	case "enter":
		m.mode = modeList
	case "backspace":
		if r := []rune(m.search); len(r) > 0 {
			m.search = string(r[:len(r)-1])
			m.applyFilter()
		}
	case "up":
		m.move(-1)
	case "down":
		m.move(1)
	default:
		if msg.Text != "" {
			m.search += msg.Text
			m.applyFilter()
		}
	}
	return nil
}

func (m *Model) updateDetail(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc", "q", "backspace":
		m.closeDetail()
	case "left", "h":
		if m.nbCursor > 0 {
			m.nbCursor--
		}
	case "right", "l":
		if m.nbCursor < len(m.neighbors)-1 {
			m.nbCursor++
		}
	case "enter":
		if m.nbCursor < len(m.neighbors) {
			return m.open(m.neighbors[m.nbCursor])
		}
	case "?":
		m.openHelp()
	case "s", "space", " ":
		if m.detail != nil {
			return m.toggle(m.detail.CommonName())
		}
	}
	return nil
}

func (m *Model) updateHelp(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc", "q", "?":
		m.mode = m.back
	}
	return nil
}

func (m *Model) openHelp() {
	m.back = m.mode
	m.mode = modeHelp
}

func (m *Model) closeDetail() {
	if m.detail != nil {
		m.sess.ForgetView(m.detail.CommonName())
	}
	m.mode = modeList
	m.detail = nil
	m.neighbors = nil
}

// open shows the detail panel of c. Every opening counts one view.
func (m *Model) open(c country.Country) tea.Cmd {
	if m.detail != nil && m.detail.CommonName() != c.CommonName() {
		m.sess.ForgetView(m.detail.CommonName())
	}
	m.detail = &c
	m.neighbors = m.sess.Index().Neighbors(c)
	m.nbCursor = 0
	m.mode = modeDetail
	return m.activateCmd(c.CommonName())
}

func (m *Model) toggle(name string) tea.Cmd {
	if m.toggling[name] || m.sess.Synchronizer().InFlight(name) {
		m.status = fmt.Sprintf("still updating %s…", name)
		m.failed = false
		return nil
	}
	m.toggling[name] = true
	m.status = fmt.Sprintf("updating %s…", name)
	m.failed = false
	return m.toggleCmd(name)
}

func (m *Model) applyToggle(msg toggledMsg) {
	delete(m.toggling, msg.name)
	if msg.err != nil {
		m.setError(fmt.Sprintf("could not update %s: %v", msg.name, msg.err))
		return
	}
	m.failed = false
	switch msg.state {
	case saved.Saved:
		m.status = fmt.Sprintf("★ %s saved", msg.name)
	case saved.Unsaved:
		m.status = fmt.Sprintf("%s removed from saved", msg.name)
	default:
		m.status = ""
	}
}

func (m *Model) setError(s string) {
	m.status = s
	m.failed = true
}

func (m *Model) move(delta int) {
	if len(m.list) == 0 {
		m.cursor = 0
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.list) {
		m.cursor = len(m.list) - 1
	}
	m.clampOffset()
}

func (m *Model) cycleRegion(delta int) {
	n := len(m.regions)
	m.region = ((m.region+delta)%n + n) % n
	m.applyFilter()
}

func (m *Model) applyFilter() {
	m.list = m.sess.Search(m.search, m.Region())
	m.cursor = 0
	m.offset = 0
}

func (m *Model) rows() int {
	if m.height <= 0 {
		return len(m.list)
	}
	return max(m.height-chromeLines, 1)
}

func (m *Model) clampOffset() {
	rows := m.rows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// Region returns the active region filter, "" for all regions.
func (m *Model) Region() string {
	if m.region == 0 {
		return ""
	}
	return m.regions[m.region]
}

// Search returns the current search text.
func (m *Model) Search() string {
	return m.search
}

// Visible returns the filtered countries.
func (m *Model) Visible() []country.Country {
	return m.list
}

// Selected returns the country under the cursor.
func (m *Model) Selected() (country.Country, bool) {
	if m.cursor < 0 || m.cursor >= len(m.list) {
		return country.Country{}, false
	}
	return m.list[m.cursor], true
}

// Detail returns the country whose detail panel is open.
func (m *Model) Detail() (country.Country, bool) {
	if m.mode != modeDetail || m.detail == nil {
		return country.Country{}, false
	}
	return *m.detail, true
}

// Status returns the status line text.
func (m *Model) Status() string {
	return m.status
}

// View renders the browser.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	switch {
	case m.mode == modeHelp:
		b.WriteString(m.viewHelp())
	case m.mode == modeDetail && m.detail != nil:
		b.WriteString(m.viewDetail())
	default:
		b.WriteString(m.viewList())
	}
	b.WriteString("\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m *Model) viewHelp() string {
	frame := m.theme.Panel.Frame
	width := max(m.width, minWidth) - frame.GetHorizontalFrameSize()
	if m.help == "" || m.helpWidth != width {
		m.help = renderHelp(width)
		m.helpWidth = width
	}
	return frame.Render(m.help)
}

func (m *Model) viewHeader() string {
	t := m.theme.Header
	var lines []string
	if m.greeting != "" {
		lines = append(lines, t.Greeting.Render(m.greeting))
	}
	query := m.search
	if m.mode == modeSearch {
		query += "▏"
	}
	lines = append(lines, fmt.Sprintf("%s %s   %s %s",
		t.Prompt.Render("Search:"), t.Query.Render(query),
		t.Prompt.Render("Region:"), t.Region.Render(m.regions[m.region])))
	return strings.Join(lines, "\n")
}

func (m *Model) viewList() string {
	t := m.theme.List
	if len(m.list) == 0 {
		return t.Muted.Render("No countries match.")
	}
	width := max(m.width, minWidth)
	end := min(m.offset+m.rows(), len(m.list))
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		c := m.list[i]
		caret := "  "
		style := t.Row
		if i == m.cursor {
			caret = "› "
			style = t.Selected
		}
		mark := " "
		if m.sess.SavedState(c.CommonName()) == saved.Saved {
			mark = t.Saved.Render("★")
		}
		name := truncate.StringWithTail(c.CommonName(), uint(width-20), "…")
		lines = append(lines, fmt.Sprintf("%s%s %s %s",
			caret, mark, style.Render(name), t.Muted.Render(c.DisplayRegion())))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewDetail() string {
	t := m.theme.Panel
	c := *m.detail
	width := max(m.width, minWidth)
	wrap := width - t.Frame.GetHorizontalFrameSize() - 12

	row := func(label, value string) string {
		return t.Label.Render(fmt.Sprintf("%-11s", label)) + " " + t.Body.Render(value)
	}

	title := c.CommonName()
	switch m.sess.SavedState(title) {
	case saved.Saved:
		title += " " + m.theme.List.Saved.Render("★")
	case saved.Unknown:
		title += " " + m.theme.List.Muted.Render("?")
	}

	lines := []string{t.Title.Render(title)}
	if c.Name.Official != "" && c.Name.Official != c.CommonName() {
		lines = append(lines, m.theme.List.Muted.Render(wordwrap.String(c.Name.Official, wrap)))
	}
	lines = append(lines,
		"",
		row("Capital", c.DisplayCapital()),
		row("Population", c.DisplayPopulation()),
		row("Region", c.DisplayRegion()),
		row("Borders", wordwrap.String(m.borderLine(), wrap)),
		row("Views", m.sess.ViewCount(c.CommonName()).String()),
	)
	if ref := c.FlagRef(); ref != "" {
		lines = append(lines, row("Flag", ref))
	}
	return t.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) borderLine() string {
	if len(m.neighbors) == 0 {
		return printers.BorderList(nil)
	}
	names := make([]string, 0, len(m.neighbors))
	for i, n := range m.neighbors {
		name := n.CommonName()
		if i == m.nbCursor {
			name = m.theme.List.Selected.Render("[" + name + "]")
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

func (m *Model) viewFooter() string {
	t := m.theme.Footer
	var lines []string
	if m.status != "" {
		if m.failed {
			lines = append(lines, t.Error.Render(m.status))
		} else {
			lines = append(lines, t.Status.Render(m.status))
		}
	}
	if m.draftPending {
		lines = append(lines, t.Status.Render("profile draft pending, run `wherein profile submit` to send it"))
	}
	var help string
	switch m.mode {
	case modeSearch:
		help = "type to search • enter done • esc clear"
	case modeDetail:
		help = "←/→ border • enter open border • s save • ? help • esc back"
	case modeHelp:
		help = "esc close help"
	default:
		help = "↑/↓ move • / search • tab region • enter open • s save • ? help • q quit"
	}
	lines = append(lines, t.Help.Render(help))
	return strings.Join(lines, "\n")
}
