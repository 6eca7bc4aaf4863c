// internal/tui/app.go
//
// This is the main TUI for guidelens. It uses bubbletea, which follows
// The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen
//
// The app has two screens: the roster (pick a guideline) and the
// review board (inspect and verify one guideline). The review board is
// its own sub-model in review_view.go.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yourusername/guidelens/internal/api"
	"github.com/yourusername/guidelens/internal/config"
	"github.com/yourusername/guidelens/internal/identity"
	"github.com/yourusername/guidelens/internal/logbook"
	"github.com/yourusername/guidelens/internal/review"
)

// appState represents which "screen" we're on
type appState int

const (
	stateRoster appState = iota // Guideline picker
	stateReview                 // Reviewing one guideline
)

// noticeTTL is how long a save notification stays on screen unless a
// newer one replaces it.
const noticeTTL = 1000 * time.Millisecond

type noticeKind int

const (
	noticeSuccess noticeKind = iota
	noticeError
)

// notice is the transient banner driven by save outcomes.
type notice struct {
	kind noticeKind
	text string
}

// noticeExpiredMsg clears the banner, unless a newer notice replaced
// the one that scheduled it (the seq check).
type noticeExpiredMsg struct {
	seq int
}

// Client is the document-store surface the TUI needs. The api.Client
// satisfies it; tests swap in fakes.
type Client interface {
	review.Client
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithClient overrides the document-store client.
func WithClient(client Client) AppOption {
	return func(a *App) {
		if client != nil {
			a.client = client
		}
	}
}

// WithIdentity overrides the reviewer identity provider.
func WithIdentity(who identity.Provider) AppOption {
	return func(a *App) {
		if who != nil {
			a.who = who
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state   appState
	config  *config.Config
	client  Client
	who     identity.Provider
	logbook *logbook.Logbook

	roster     list.Model
	reviewView *reviewView

	statusMsg string

	// Transient save notification
	notice    *notice
	noticeSeq int

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// guidelineItem implements list.Item for roster entries.
type guidelineItem struct {
	id   string
	name string
}

func (i guidelineItem) Title() string {
	if i.name != "" {
		return i.name
	}
	return i.id
}
func (i guidelineItem) Description() string { return fmt.Sprintf("Guideline ID: %s", i.id) }
func (i guidelineItem) FilterValue() string { return i.id + " " + i.name }

// NewApp creates a new App instance.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	logPath := filepath.Join(cfg.LogsDir(), "session.log")
	lb, err := logbook.New(logPath)
	if err == nil {
		lb.Info("Session opened · %d guideline(s) in roster", len(cfg.Guidelines()))
	}

	roster := list.New(buildRoster(cfg), list.NewDefaultDelegate(), 0, 0)
	roster.Title = "⬡ GUIDELINE ROSTER"
	roster.SetShowStatusBar(false)
	roster.SetFilteringEnabled(true)

	app := &App{
		state:     stateRoster,
		config:    cfg,
		client:    api.NewClient(cfg.ServerURL(), nil),
		who:       identity.FromConfig(cfg.ReviewerEmail()),
		logbook:   lb,
		roster:    roster,
		statusMsg: "Select a guideline to review",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	return app, nil
}

// buildRoster creates roster items from the configured guidelines.
func buildRoster(cfg *config.Config) []list.Item {
	refs := cfg.Guidelines()
	items := make([]list.Item, 0, len(refs))
	for _, ref := range refs {
		items = append(items, guidelineItem{id: ref.ID, name: ref.Name})
	}
	return items
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

// showNotice replaces any current banner and schedules its expiry.
func (a *App) showNotice(kind noticeKind, text string) tea.Cmd {
	a.noticeSeq++
	seq := a.noticeSeq
	a.notice = &notice{kind: kind, text: text}
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.roster.SetSize(max(0, msg.Width-6), max(0, msg.Height-12))
		if a.state == stateReview && a.reviewView != nil {
			return a, a.reviewView.Update(msg)
		}
		return a, nil

	case noticeExpiredMsg:
		if msg.seq == a.noticeSeq {
			a.notice = nil
		}
		return a, nil

	case saveResultMsg:
		if a.reviewView == nil {
			return a, nil
		}
		rearm := a.reviewView.awaitSaveResult()
		if msg.err != nil {
			a.reviewView.log.Error("Save failed: %v", msg.err)
			return a, tea.Batch(rearm, a.showNotice(noticeError, "Failed to save changes. Please try again."))
		}
		a.reviewView.log.Info("Changes saved")
		return a, tea.Batch(rearm, a.showNotice(noticeSuccess, "Changes saved successfully"))

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c":
			a.teardownReview()
			return a, tea.Quit
		case "q":
			if a.state == stateRoster && !a.roster.SettingFilter() {
				a.teardownReview()
				return a, tea.Quit
			}
		case "esc":
			if a.state == stateReview && a.reviewView != nil && !a.reviewView.CapturesEscape() {
				return a.returnToRoster()
			}
		case "enter":
			if a.state == stateRoster && !a.roster.SettingFilter() {
				return a.openSelectedGuideline()
			}
		}
	}

	var cmds []tea.Cmd
	switch a.state {
	case stateRoster:
		var rosterCmd tea.Cmd
		a.roster, rosterCmd = a.roster.Update(msg)
		if rosterCmd != nil {
			cmds = append(cmds, rosterCmd)
		}
	case stateReview:
		if a.reviewView != nil {
			if cmd := a.reviewView.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	return a, tea.Batch(cmds...)
}

// openSelectedGuideline switches into the review board for the
// selected roster entry.
func (a *App) openSelectedGuideline() (tea.Model, tea.Cmd) {
	item, ok := a.roster.SelectedItem().(guidelineItem)
	if !ok {
		a.statusMsg = "No guideline selected"
		return a, nil
	}
	a.logInfo("Opened guideline %s", item.id)
	a.state = stateReview
	a.reviewView = newReviewView(a, item.id, item.name)
	return a, a.reviewView.Init()
}

// returnToRoster tears down the review board. Teardown cancels any
// pending debounced write so a stale record is never persisted against
// the next selection.
func (a *App) returnToRoster() (tea.Model, tea.Cmd) {
	a.teardownReview()
	a.state = stateRoster
	a.statusMsg = "Select a guideline to review"
	return a, nil
}

func (a *App) teardownReview() {
	if a.reviewView != nil {
		a.reviewView.Close()
		a.reviewView = nil
		a.logInfo("Returned to roster")
	}
}

// View renders the current state to a string.
func (a *App) View() string {
	var content string
	switch a.state {
	case stateRoster:
		content = a.renderRoster()
	case stateReview:
		if a.reviewView != nil {
			content = a.reviewView.View()
		} else {
			content = "Loading guideline..."
		}
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		MarginBottom(1).
		Render("⬡ GUIDELENS")
	sections := []string{header, content}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, a.renderFooter())
	return strings.Join(sections, "\n")
}

func (a *App) renderRoster() string {
	if len(a.roster.Items()) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render(
			"No guidelines configured.\nAdd roster entries to .guidelens/config.yaml and restart.")
	}
	return a.roster.View()
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", filepath.Base(a.logbook.Path())))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) renderFooter() string {
	if a.notice != nil {
		color := "#4CAF50"
		if a.notice.kind == noticeError {
			color = "#FF6B6B"
		}
		return lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color)).
			MarginTop(1).
			Render(a.notice.text)
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
