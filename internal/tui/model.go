package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/CaptShanks/kpm2keepass/internal/keepass"
	"github.com/CaptShanks/kpm2keepass/internal/parser"
	"github.com/CaptShanks/kpm2keepass/internal/updater"
)

// Options configures the interactive viewer
type Options struct {
	Mapping     keepass.Mapping
	ShowSecrets bool

	// Version enables the background update check when non-empty
	Version            string
	CheckUpdates       bool
	UpdateIntervalDays int
}

// entry addresses one record inside the document
type entry struct {
	category int
	record   int
}

// Model is the bubbletea model of the document viewer
type Model struct {
	doc     *parser.Document
	opts    Options
	entries []entry
	keys    keyMap

	cursor      int
	expanded    map[int]bool
	showSecrets bool

	viewport viewport.Model
	ready    bool
	width    int
	height   int

	searching   bool
	searchInput textinput.Model
	searchQuery string
	matches     []int // indices into entries, in display order

	entryLineStarts  []int // rendered line offset per displayed entry
	contentLineCount int

	updateAvailable string
}

// UpdateAvailableMsg is sent when the update check finds a newer version
type UpdateAvailableMsg struct {
	Version string
}

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	Expand      key.Binding
	Collapse    key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	HalfDown    key.Binding
	HalfUp      key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Search      key.Binding
	Next        key.Binding
	Prev        key.Binding
	Secrets     key.Binding
	Clear       key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("k", "up")),
		Down:        key.NewBinding(key.WithKeys("j", "down")),
		Toggle:      key.NewBinding(key.WithKeys("enter", " ")),
		Expand:      key.NewBinding(key.WithKeys("l", "right")),
		Collapse:    key.NewBinding(key.WithKeys("h", "left", "backspace")),
		ExpandAll:   key.NewBinding(key.WithKeys("e")),
		CollapseAll: key.NewBinding(key.WithKeys("c")),
		HalfDown:    key.NewBinding(key.WithKeys("d", "ctrl+d", "pgdown")),
		HalfUp:      key.NewBinding(key.WithKeys("u", "ctrl+u", "pgup")),
		Top:         key.NewBinding(key.WithKeys("g", "home")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end")),
		Search:      key.NewBinding(key.WithKeys("/")),
		Next:        key.NewBinding(key.WithKeys("n")),
		Prev:        key.NewBinding(key.WithKeys("N")),
		Secrets:     key.NewBinding(key.WithKeys("s")),
		Clear:       key.NewBinding(key.WithKeys("esc")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c")),
	}
}

// NewModel creates a viewer over a parsed document
func NewModel(doc *parser.Document, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = 100
	ti.Width = 40

	var entries []entry
	for ci, cat := range doc.Categories {
		for ri := range cat.Records {
			entries = append(entries, entry{category: ci, record: ri})
		}
	}

	return Model{
		doc:         doc,
		opts:        opts,
		entries:     entries,
		keys:        defaultKeyMap(),
		expanded:    make(map[int]bool),
		showSecrets: opts.ShowSecrets,
		searchInput: ti,
	}
}

// Init starts the background update check when enabled
func (m Model) Init() tea.Cmd {
	if m.opts.Version == "" || !m.opts.CheckUpdates {
		return nil
	}
	return checkUpdateCmd(m.opts.Version, m.opts.UpdateIntervalDays)
}

func checkUpdateCmd(version string, intervalDays int) tea.Cmd {
	return func() tea.Msg {
		latest, hasUpdate, err := updater.CheckLatestWithCache(version, intervalDays)
		if err != nil || !hasUpdate {
			return nil
		}
		return UpdateAvailableMsg{Version: latest}
	}
}

func (m Model) record(e entry) parser.Record {
	return m.doc.Categories[e.category].Records[e.record]
}

// displayed returns the entry indices currently shown
func (m Model) displayed() []int {
	if m.searchQuery != "" {
		return m.matches
	}
	all := make([]int, len(m.entries))
	for i := range m.entries {
		all[i] = i
	}
	return all
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case UpdateAvailableMsg:
		m.updateAvailable = msg.Version
		m.resize()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleNormalKey(msg)

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	headerHeight := 4 // title + summary + blank line
	footerHeight := 3
	if m.updateAvailable != "" {
		footerHeight++
	}
	height := m.height - headerHeight - footerHeight
	if height < 1 {
		height = 1
	}

	if !m.ready {
		m.viewport = viewport.New(m.width-4, height)
		m.viewport.YPosition = headerHeight
		m.ready = true
		return
	}
	m.viewport.Width = m.width - 4
	m.viewport.Height = height
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "enter":
		m.searching = false
		m.searchInput.Blur()
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.clearSearch()
	default:
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.searchQuery = m.searchInput.Value()
		m.performSearch()
	}

	m.refresh()
	return m, cmd
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	shown := m.displayed()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(shown)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if idx, ok := m.current(); ok {
			m.expanded[idx] = !m.expanded[idx]
		}

	case key.Matches(msg, m.keys.Expand):
		if idx, ok := m.current(); ok {
			m.expanded[idx] = true
		}

	case key.Matches(msg, m.keys.Collapse):
		if idx, ok := m.current(); ok {
			m.expanded[idx] = false
		}

	case key.Matches(msg, m.keys.ExpandAll):
		for _, idx := range shown {
			m.expanded[idx] = true
		}

	case key.Matches(msg, m.keys.CollapseAll):
		for _, idx := range shown {
			m.expanded[idx] = false
		}

	case key.Matches(msg, m.keys.HalfDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height/2)
		return m, nil

	case key.Matches(msg, m.keys.HalfUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height/2)
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0

	case key.Matches(msg, m.keys.Bottom):
		if len(shown) > 0 {
			m.cursor = len(shown) - 1
		}

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Next):
		if len(shown) > 0 {
			m.cursor = (m.cursor + 1) % len(shown)
		}

	case key.Matches(msg, m.keys.Prev):
		if len(shown) > 0 {
			m.cursor = (m.cursor - 1 + len(shown)) % len(shown)
		}

	case key.Matches(msg, m.keys.Secrets):
		m.showSecrets = !m.showSecrets

	case key.Matches(msg, m.keys.Clear):
		m.clearSearch()

	default:
		return m, nil
	}

	m.refresh()
	return m, nil
}

// current returns the entry index under the cursor
func (m Model) current() (int, bool) {
	shown := m.displayed()
	if m.cursor < 0 || m.cursor >= len(shown) {
		return 0, false
	}
	return shown[m.cursor], true
}

func (m *Model) clearSearch() {
	m.searchQuery = ""
	m.searchInput.SetValue("")
	m.matches = nil
	m.clampCursor()
}

// performSearch keeps the entries matching every whitespace separated term.
// Secret values are never searched.
func (m *Model) performSearch() {
	m.matches = []int{}
	terms := strings.Fields(strings.ToLower(m.searchQuery))

	for i, e := range m.entries {
		searchable := m.searchText(e)
		all := true
		for _, term := range terms {
			if !fuzzyMatch(searchable, term) {
				all = false
				break
			}
		}
		if all {
			m.matches = append(m.matches, i)
		}
	}
	m.cursor = 0
}

func (m Model) searchText(e entry) string {
	rec := m.record(e)
	parts := []string{m.doc.Categories[e.category].Name, rec.Name}
	for _, f := range rec.Fields {
		if !m.opts.Mapping.IsSecret(f.Name) {
			parts = append(parts, f.Value)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// fuzzyMatch returns true if all characters in query appear in text in order
// (not necessarily consecutive). E.g. "gml" matches "gmail".
func fuzzyMatch(text, query string) bool {
	text = strings.ToLower(text)
	query = strings.ToLower(query)
	if query == "" {
		return true
	}
	qi := 0
	for i := 0; i < len(text) && qi < len(query); i++ {
		if text[i] == query[qi] {
			qi++
		}
	}
	return qi == len(query)
}

func (m *Model) clampCursor() {
	n := len(m.displayed())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// refresh re-renders the viewport content and keeps the cursor in view
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderEntries())
	m.ensureCursorVisible()
}

func (m *Model) ensureCursorVisible() {
	if m.cursor < 0 || m.cursor >= len(m.entryLineStarts) {
		return
	}
	line := m.entryLineStarts[m.cursor]

	end := m.contentLineCount
	if m.cursor+1 < len(m.entryLineStarts) {
		end = m.entryLineStarts[m.cursor+1]
	}

	top := m.viewport.YOffset
	bottom := top + m.viewport.Height - 1
	switch {
	case line < top:
		m.viewport.SetYOffset(line)
	case end-1 > bottom:
		// Show as much of an expanded record as fits, title first
		offset := end - m.viewport.Height
		if offset > line {
			offset = line
		}
		m.viewport.SetYOffset(offset)
	}
}

func (m *Model) renderEntries() string {
	var b strings.Builder
	shown := m.displayed()
	m.entryLineStarts = make([]int, len(shown))

	if len(shown) == 0 && (m.searchQuery != "" || len(m.doc.Categories) == 0) {
		if m.searchQuery != "" {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("No records match '%s'. Press Esc to clear.", m.searchQuery)))
		} else {
			b.WriteString(mutedStyle.Render("No records in this export."))
		}
		b.WriteString("\n")
		m.contentLineCount = 1
		return b.String()
	}

	// display indices grouped by category, in display order
	byCategory := make(map[int][]int)
	for displayIdx, idx := range shown {
		ci := m.entries[idx].category
		byCategory[ci] = append(byCategory[ci], displayIdx)
	}

	lines := 0
	first := true
	for ci, cat := range m.doc.Categories {
		rows := byCategory[ci]
		// Empty categories are listed, like in the printed dump, unless filtering
		if len(rows) == 0 && (m.searchQuery != "" || len(cat.Records) > 0) {
			continue
		}
		if !first {
			b.WriteString("\n")
			lines++
		}
		first = false

		b.WriteString(categoryStyle.Render(cat.Name))
		b.WriteString(" ")
		if len(cat.Records) == 0 {
			b.WriteString(mutedStyle.Render("(empty, no table)"))
		} else {
			b.WriteString(mutedStyle.Render("(" + plural(len(cat.Records), "record", "records") + ")"))
		}
		b.WriteString("\n")
		lines++

		for _, displayIdx := range rows {
			idx := shown[displayIdx]
			e := m.entries[idx]

			m.entryLineStarts[displayIdx] = lines
			b.WriteString(m.renderEntryLine(e, m.expanded[idx], displayIdx == m.cursor))
			b.WriteString("\n")
			lines++

			if m.expanded[idx] {
				before := b.Len()
				m.renderFields(&b, m.record(e).Fields)
				lines += strings.Count(b.String()[before:], "\n")
			}
		}
	}
	m.contentLineCount = lines

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("── End of Export ──"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderEntryLine(e entry, expanded, selected bool) string {
	rec := m.record(e)
	indicator := collapsedIndicator
	plain := "▶"
	if expanded {
		indicator = expandedIndicator
		plain = "▼"
	}
	count := fmt.Sprintf(" (%s)", plural(len(rec.Fields), "field", "fields"))

	if selected {
		line := "  " + plain + " " + recordTitle(rec) + count
		if target := m.width - 4; target > 0 && lipgloss.Width(line) < target {
			line += strings.Repeat(" ", target-lipgloss.Width(line))
		}
		return selectedStyle.Render(line)
	}

	title := recordTitle(rec)
	if m.searchQuery != "" {
		title = highlightMatch(title, m.searchQuery)
	}
	return "  " + indicator + " " + recordStyle.Render(title) + mutedStyle.Render(count)
}

// renderFields writes a record's fields, wrapping long values to the viewport
func (m Model) renderFields(b *strings.Builder, fields []parser.Field) {
	width := labelWidth(fields)
	indent := strings.Repeat(" ", 6+width+2)
	maxWidth := m.viewport.Width - len(indent)

	for _, f := range fields {
		value := renderValue(f, m.opts.Mapping, m.showSecrets)
		if !m.opts.Mapping.IsSecret(f.Name) && f.Value != "" {
			wrapped := strings.Split(wrapText(f.Value, maxWidth), "\n")
			for i, part := range wrapped {
				wrapped[i] = renderValue(parser.Field{Name: f.Name, Value: part}, m.opts.Mapping, m.showSecrets)
			}
			value = strings.Join(wrapped, "\n"+indent)
		}
		fmt.Fprintf(b, "      %s  %s\n", labelStyle.Render(padRight(f.Name, width)), value)
	}
}

func wrapText(s string, width int) string {
	if width <= 10 {
		return s
	}
	return wordwrap.String(s, width)
}

// highlightMatch styles the first case-insensitive occurrence of query.
// Positions are in runes since lowercasing may change a string's byte length.
func highlightMatch(text, query string) string {
	start, end, ok := matchSpan(text, query)
	if !ok {
		return text
	}
	r := []rune(text)
	return string(r[:start]) + matchStyle.Render(string(r[start:end])) + string(r[end:])
}

// matchSpan returns the rune range of the first case-insensitive occurrence
// of query in text.
func matchSpan(text, query string) (start, end int, ok bool) {
	q := []rune(query)
	if len(q) == 0 {
		return 0, 0, false
	}
	r := []rune(text)
	for i := 0; i+len(q) <= len(r); i++ {
		if strings.EqualFold(string(r[i:i+len(q)]), query) {
			return i, i + len(q), true
		}
	}
	return 0, 0, false
}

func (m Model) viewHeader() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("🔑 kpm2keepass - Export Viewer"))
	b.WriteString("\n")
	b.WriteString(summaryStyle.Render("  " + documentSummary(m.doc)))
	b.WriteString("\n\n")
	return b.String()
}

func (m Model) viewSearchBar() string {
	if m.searching {
		return searchStyle.Render("Search: ") + m.searchInput.View() + "\n\n"
	}
	if m.searchQuery != "" {
		return searchStyle.Render(fmt.Sprintf("Search: %q (%d matches) • Esc: clear", m.searchQuery, len(m.matches))) + "\n\n"
	}
	return ""
}

func (m Model) viewHelpFooter() string {
	secrets := "s: show secrets"
	if m.showSecrets {
		secrets = "s: hide secrets"
	}
	return "j/k: navigate • enter: expand • e/c: all • d/u: scroll • g/G: top/bottom • /: search • n/N: next/prev • " + secrets + " • q: quit"
}

func (m Model) viewUpdateNudge() string {
	if m.updateAvailable == "" {
		return ""
	}
	return "\n" + warnStyle.Render(fmt.Sprintf("Update available: v%s. Run 'kpm2keepass upgrade' to update.", m.updateAvailable))
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString(m.viewSearchBar())
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.viewHelpFooter()))
	b.WriteString(m.viewUpdateNudge())
	return appStyle.Render(b.String())
}

// Run starts the viewer in the alternate screen and blocks until it exits
func Run(doc *parser.Document, opts Options) error {
	p := tea.NewProgram(
		NewModel(doc, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
