package tui

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/hay-kot/mqview/internal/broker"
	"github.com/hay-kot/mqview/internal/core/config"
	"github.com/hay-kot/mqview/internal/core/history"
)

const keyCtrlC = "ctrl+c"

// Source is the live connection the explorer reads from. Read must run fn
// under the tree lock and return an error only when the tree can no longer
// be trusted.
type Source interface {
	URL() string
	Read(fn func(t *history.Tree)) error
	ConnectionErr() error
	CleanBelow(topic string) error
}

// Options configures the TUI behavior.
type Options struct {
	Logger zerolog.Logger
	// Clipboard replaces the system clipboard. Used by tests.
	Clipboard func(text string) error
}

// Model is the Bubble Tea model of the topic explorer.
type Model struct {
	src Source
	cfg *config.Config
	log zerolog.Logger

	focus    Focus
	overview *TopicOverview
	json     *JSONView
	// topic the JSON view state belongs to
	jsonTopic string
	search    textinput.Model
	note      string
	copy      func(text string) error

	width  int
	height int
	frame  string
	err    error
}

// New creates a new TUI model.
func New(src Source, cfg *config.Config, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.PromptStyle = searchPromptStyle
	ti.Placeholder = "part of a topic level"
	ti.Cursor.SetMode(cursor.CursorStatic)

	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	return Model{
		src:      src,
		cfg:      cfg,
		log:      opts.Logger.With().Str("component", "tui").Logger(),
		overview: NewTopicOverview(),
		json:     NewJSONView(),
		search:   ti,
		copy:     copyFn,
	}
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error {
	return m.err
}

// Focus returns the current focus.
func (m Model) Focus() Focus {
	return m.focus
}

// Init starts the redraw ticker.
func (m Model) Init() tea.Cmd {
	return scheduleTick(m.cfg.TUI.TickInterval)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.apply(RefreshUpdate, nil, nil)
	case tickMsg:
		// ticks always redraw so new messages show up without input
		return m.apply(RefreshUpdate, scheduleTick(m.cfg.TUI.TickInterval), nil)
	case tea.KeyMsg:
		refresh, cmd, err := m.onKey(msg)
		return m.apply(refresh, cmd, err)
	case tea.MouseMsg:
		refresh, err := m.onMouse(msg)
		return m.apply(refresh, nil, err)
	}

	if m.focus.Mode == FocusSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// apply turns the outcome of an input into the next model and command.
func (m Model) apply(refresh Refresh, cmd tea.Cmd, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		return m.fail(err)
	}

	switch refresh {
	case RefreshQuit:
		return m, tea.Quit
	case RefreshUpdate:
		if err := m.draw(); err != nil {
			return m.fail(err)
		}
	}
	return m, cmd
}

// fail ends the program. The tree lock is poisoned or the source is gone,
// so nothing on screen can be trusted any more.
func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.log.Error().Err(err).Msg("topic tree unavailable")
	return m, tea.Quit
}

// View renders the last drawn frame.
func (m Model) View() string {
	return m.frame
}

func (m *Model) onKey(msg tea.KeyMsg) (Refresh, tea.Cmd, error) {
	hadNote := m.note != ""
	m.note = ""

	var (
		refresh Refresh
		cmd     tea.Cmd
		err     error
	)
	switch m.focus.Mode {
	case FocusJSONPayload:
		refresh, err = m.onJSONKey(msg)
	case FocusCleanRetained:
		refresh, err = m.onPopupKey(msg)
	case FocusSearch:
		refresh, cmd, err = m.onSearchKey(msg)
	default:
		refresh, err = m.onOverviewKey(msg)
	}

	if refresh == RefreshSkip && hadNote {
		refresh = RefreshUpdate
	}
	return refresh, cmd, err
}

func (m *Model) onOverviewKey(msg tea.KeyMsg) (Refresh, error) {
	switch {
	case key.Matches(msg, keys.Quit):
		return RefreshQuit, nil
	case key.Matches(msg, keys.SwitchPane):
		if _, ok, err := m.selectedJSON(); err != nil || !ok {
			return RefreshSkip, err
		}
		m.focus = Focus{Mode: FocusJSONPayload}
		return RefreshUpdate, nil
	case key.Matches(msg, keys.Toggle):
		if _, ok := m.overview.Selected(); !ok {
			return RefreshSkip, nil
		}
		m.overview.Toggle()
		return RefreshUpdate, nil
	case key.Matches(msg, keys.Up):
		return m.onUp()
	case key.Matches(msg, keys.Down):
		return m.onDown()
	case key.Matches(msg, keys.Close):
		if _, ok := m.overview.Selected(); !ok {
			return RefreshSkip, nil
		}
		m.overview.Close()
		return RefreshUpdate, nil
	case key.Matches(msg, keys.Open):
		if _, ok := m.overview.Selected(); !ok {
			return RefreshSkip, nil
		}
		m.overview.Open()
		return RefreshUpdate, nil
	case key.Matches(msg, keys.Home):
		return m.moveTopic(Absolute(0))
	case key.Matches(msg, keys.End):
		return m.moveTopic(Last)
	case key.Matches(msg, keys.PageUp):
		return m.moveTopic(PageUp)
	case key.Matches(msg, keys.PageDown):
		return m.moveTopic(PageDown)
	case key.Matches(msg, keys.Clean):
		topic, ok := m.overview.Selected()
		if !ok {
			return RefreshSkip, nil
		}
		m.focus = Focus{Mode: FocusCleanRetained, Topic: topic}
		return RefreshUpdate, nil
	case key.Matches(msg, keys.Search):
		m.focus = Focus{Mode: FocusSearch}
		m.search.SetValue("")
		m.search.Focus()
		return RefreshUpdate, nil
	case key.Matches(msg, keys.Copy):
		return m.copyPayload()
	}
	return RefreshSkip, nil
}

func (m *Model) onJSONKey(msg tea.KeyMsg) (Refresh, error) {
	if key.Matches(msg, keys.Quit) {
		return RefreshQuit, nil
	}
	if key.Matches(msg, keys.SwitchPane) {
		m.focus = Focus{Mode: FocusTopicOverview}
		return RefreshUpdate, nil
	}

	doc, ok, err := m.selectedJSON()
	if err != nil {
		return RefreshSkip, err
	}
	if !ok {
		// the latest payload is no longer JSON
		m.focus = Focus{Mode: FocusTopicOverview}
		return RefreshUpdate, nil
	}

	var changed bool
	switch {
	case key.Matches(msg, keys.Toggle):
		changed = m.json.Toggle(doc)
	case key.Matches(msg, keys.Up):
		changed = m.json.KeyUp(doc)
	case key.Matches(msg, keys.Down):
		changed = m.json.KeyDown(doc)
	case key.Matches(msg, keys.Close):
		changed = m.json.KeyLeft()
	case key.Matches(msg, keys.Open):
		changed = m.json.KeyRight(doc)
	case key.Matches(msg, keys.Home):
		changed = m.json.SelectFirst(doc)
	case key.Matches(msg, keys.End):
		changed = m.json.SelectLast(doc)
	case key.Matches(msg, keys.Copy):
		if value, ok := m.json.SelectedValue(doc); ok {
			m.copyText(value)
			changed = true
		}
	}

	if !changed {
		return RefreshSkip, nil
	}
	return RefreshUpdate, nil
}

// onPopupKey confirms the clean on Enter or space. Every other key aborts.
func (m *Model) onPopupKey(msg tea.KeyMsg) (Refresh, error) {
	topic := m.focus.Topic
	m.focus = Focus{Mode: FocusTopicOverview}

	if !key.Matches(msg, keys.Confirm) {
		return RefreshUpdate, nil
	}

	if err := m.src.CleanBelow(topic); err != nil {
		if errors.Is(err, broker.ErrPoisoned) {
			return RefreshSkip, err
		}
		m.log.Error().Err(err).Str("topic", topic).Msg("clean retained failed")
		m.note = "Clean failed: " + err.Error()
	}
	return RefreshUpdate, nil
}

func (m *Model) onSearchKey(msg tea.KeyMsg) (Refresh, tea.Cmd, error) {
	switch {
	case msg.String() == keyCtrlC:
		return RefreshQuit, nil, nil
	case key.Matches(msg, keys.SearchCancel):
		m.search.Blur()
		m.focus = Focus{Mode: FocusTopicOverview}
		return RefreshUpdate, nil, nil
	case key.Matches(msg, keys.SearchSubmit):
		m.search.Blur()
		m.focus = Focus{Mode: FocusTopicOverview}
		return RefreshUpdate, nil, m.runSearch(m.search.Value())
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return RefreshUpdate, cmd, nil
}

// runSearch filters the tree to the topics whose level contains text. An
// empty text clears the filter.
func (m *Model) runSearch(text string) error {
	if text == "" {
		m.overview.ClearSearch()
		return nil
	}

	var results []string
	if err := m.src.Read(func(t *history.Tree) {
		results = t.Search(text)
	}); err != nil {
		return err
	}

	m.overview.SetSearchResult(results)
	if len(results) == 0 {
		m.note = "No matches for " + text
	}
	return nil
}

func (m *Model) onMouse(msg tea.MouseMsg) (Refresh, error) {
	if msg.Action != tea.MouseActionPress {
		return RefreshSkip, nil
	}

	switch m.focus.Mode {
	case FocusCleanRetained:
		m.focus = Focus{Mode: FocusTopicOverview}
		return RefreshUpdate, nil
	case FocusSearch:
		return RefreshSkip, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.onUp()
	case tea.MouseButtonWheelDown:
		return m.onDown()
	case tea.MouseButtonLeft:
		return m.onClick(msg.X, msg.Y)
	}
	return RefreshSkip, nil
}

// onClick hits the topic tree first and the JSON pane second. Clicking the
// selected topic toggles it.
func (m *Model) onClick(x, y int) (Refresh, error) {
	if index, ok := m.overview.IndexOfClick(x, y); ok {
		visible, err := m.visibleTopics()
		if err != nil {
			return RefreshSkip, err
		}
		if len(visible) == 0 {
			return RefreshSkip, nil
		}
		// rows below the last topic clamp to it
		if !m.overview.ChangeSelected(visible, Absolute(index)) {
			m.overview.Toggle()
		}
		m.focus = Focus{Mode: FocusTopicOverview}
		return RefreshUpdate, nil
	}

	doc, ok, err := m.selectedJSON()
	if err != nil || !ok {
		return RefreshSkip, err
	}
	if m.json.Click(doc, x, y) {
		m.focus = Focus{Mode: FocusJSONPayload}
		return RefreshUpdate, nil
	}
	return RefreshSkip, nil
}

func (m *Model) onUp() (Refresh, error) {
	if m.focus.Mode == FocusJSONPayload {
		return m.moveJSON((*JSONView).KeyUp)
	}
	return m.moveTopic(OneUp)
}

func (m *Model) onDown() (Refresh, error) {
	if m.focus.Mode == FocusJSONPayload {
		return m.moveJSON((*JSONView).KeyDown)
	}
	return m.moveTopic(OneDown)
}

func (m *Model) moveJSON(move func(*JSONView, any) bool) (Refresh, error) {
	doc, ok, err := m.selectedJSON()
	if err != nil || !ok {
		return RefreshSkip, err
	}
	if !move(m.json, doc) {
		return RefreshSkip, nil
	}
	return RefreshUpdate, nil
}

func (m *Model) moveTopic(move CursorMove) (Refresh, error) {
	visible, err := m.visibleTopics()
	if err != nil {
		return RefreshSkip, err
	}
	if !m.overview.ChangeSelected(visible, move) {
		return RefreshSkip, nil
	}
	return RefreshUpdate, nil
}

func (m *Model) visibleTopics() ([]string, error) {
	var visible []string
	err := m.src.Read(func(t *history.Tree) {
		visible = t.VisibleTopics(m.overview.Opened(), m.overview.Query())
	})
	return visible, err
}

// selectedJSON returns the decoded latest payload of the selected topic.
// Stored payloads are never mutated, so the document is safe to use after
// the lock is released.
func (m *Model) selectedJSON() (any, bool, error) {
	topic, ok := m.overview.Selected()
	if !ok {
		return nil, false, nil
	}

	var (
		doc   any
		found bool
	)
	err := m.src.Read(func(t *history.Tree) {
		if e, ok := t.Last(topic); ok {
			doc, found = e.Payload.AsJSON()
		}
	})
	return doc, found, err
}

func (m *Model) copyPayload() (Refresh, error) {
	topic, ok := m.overview.Selected()
	if !ok {
		return RefreshSkip, nil
	}

	var (
		last  history.Entry
		found bool
	)
	if err := m.src.Read(func(t *history.Tree) {
		last, found = t.Last(topic)
	}); err != nil {
		return RefreshSkip, err
	}
	if !found || last.Payload.Kind == history.PayloadNotUTF8 {
		return RefreshSkip, nil
	}

	m.copyText(last.Payload.Text)
	return RefreshUpdate, nil
}

func (m *Model) copyText(text string) {
	if err := m.copy(text); err != nil {
		m.log.Warn().Err(err).Msg("copy to clipboard")
		m.note = "Copy failed"
		return
	}
	m.note = "Copied to clipboard"
}

// frameData is everything a frame needs from the tree, copied out under a
// single read lock.
type frameData struct {
	topics   int
	messages int
	items    []history.TreeItem
	entries  []history.Entry
	last     time.Time
}

// draw renders the next frame into m.frame. The tree lock is only held
// while frameData is collected.
func (m *Model) draw() error {
	if m.width <= 0 || m.height <= 0 {
		return nil
	}

	selected, hasSelected := m.overview.Selected()

	var d frameData
	if err := m.src.Read(func(t *history.Tree) {
		d.topics, d.items = t.Items(m.overview.Query())
		d.messages = t.Messages()
		d.last = t.LastReceived()
		if hasSelected {
			if entries, ok := t.Lookup(selected); ok {
				d.entries = slices.Clone(entries)
			}
		}
	}); err != nil {
		return err
	}

	if selected != m.jsonTopic {
		m.json = NewJSONView()
		m.jsonTopic = selected
	}
	m.json.area = Rect{}

	if m.focus.Mode == FocusJSONPayload && !lastIsJSON(d.entries) {
		m.focus = Focus{Mode: FocusTopicOverview}
	}

	header := renderHeader(headerInfo{
		url:        m.src.URL(),
		subscribed: m.cfg.Topics,
		connErr:    m.src.ConnectionErr(),
		selected:   selected,
		topics:     d.topics,
		messages:   d.messages,
		last:       d.last,
	}, m.width)

	parts := []string{header}

	area := Rect{X: 0, Y: 2, W: m.width, H: m.height - 3}
	if area.H >= 3 {
		parts = append(parts, m.renderMain(area, d))
	}

	parts = append(parts, m.renderBottom(lastIsJSON(d.entries)))

	m.frame = clipFrame(strings.Join(parts, "\n"), m.height)
	return nil
}

func (m *Model) renderMain(r Rect, d frameData) string {
	if m.focus.Mode == FocusCleanRetained {
		return renderCleanPopup(r, m.focus.Topic)
	}

	treeFocused := m.focus.Mode != FocusJSONPayload
	if len(d.entries) == 0 {
		return m.overview.renderTopicTree(r, d.topics, d.items, treeFocused)
	}

	treeW := r.W / 2
	tree := m.overview.renderTopicTree(Rect{X: r.X, Y: r.Y, W: treeW, H: r.H}, d.topics, d.items, treeFocused)
	details := m.renderDetails(Rect{X: r.X + treeW, Y: r.Y, W: r.W - treeW, H: r.H}, d.entries)
	return lipgloss.JoinHorizontal(lipgloss.Top, tree, details)
}

func (m *Model) renderBottom(jsonSelected bool) string {
	if m.focus.Mode == FocusSearch {
		return fitLine(m.search.View(), m.width)
	}

	if m.note == "" {
		return fitLine(renderHints(hintBindings(m.focus.Mode, jsonSelected), m.width), m.width)
	}

	// the note goes first so it survives narrow terminals
	note := searchNoteStyle.Render(singleLine(m.note)) + " "
	hints := renderHints(hintBindings(m.focus.Mode, jsonSelected), m.width-lipgloss.Width(note))
	return fitLine(note+hints, m.width)
}

func lastIsJSON(entries []history.Entry) bool {
	return len(entries) > 0 && entries[len(entries)-1].Payload.Kind == history.PayloadJSON
}

// clipFrame keeps at most height lines so the frame never scrolls the
// terminal.
func clipFrame(s string, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
