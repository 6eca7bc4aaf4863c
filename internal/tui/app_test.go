package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yourusername/guidelens/internal/api"
	"github.com/yourusername/guidelens/internal/config"
	"github.com/yourusername/guidelens/internal/identity"
	"github.com/yourusername/guidelens/internal/review"
)

const testRosterYAML = `version: 1
server:
  url: http://localhost:8000
reviewer:
  email: reviewer@clinic.example
guidelines:
  - id: guideline-001
    name: Asthma management (adult)
review:
  debounce_ms: 1000
`

type fakeStore struct {
	mu        sync.Mutex
	guideline api.Guideline
	getErr    error
	pushes    []api.PushRequest
	pushed    chan api.PushRequest
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		guideline: api.Guideline{
			GuidelineID:   "guideline-001",
			GuidelineName: "Asthma management (adult)",
			GuidelineData: api.GuidelineData{
				GuidelineText:             "Adults presenting with wheeze should be assessed for severity.",
				GuidelineMedicalCondition: "Medical Conditions: asthma",
				GuidelineCriteria:         "## Inclusion\n\n- Age 18 or older",
				GuidelinePDF:              "http://localhost:8000/pdfs/guideline-001.pdf",
				GuidelineComments:         `{"colleague@clinic.example":"Dosage table needs a source."}`,
			},
		},
		pushed: make(chan api.PushRequest, 32),
	}
}

func (s *fakeStore) GetGuideline(ctx context.Context, id string) (api.Guideline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return api.Guideline{}, s.getErr
	}
	return s.guideline, nil
}

func (s *fakeStore) PushGuidelineData(ctx context.Context, id string, body api.PushRequest) error {
	s.mu.Lock()
	s.pushes = append(s.pushes, body)
	s.mu.Unlock()
	s.pushed <- body
	return nil
}

func (s *fakeStore) awaitPush(t *testing.T) api.PushRequest {
	t.Helper()
	select {
	case body := <-s.pushed:
		return body
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for a push")
		return api.PushRequest{}
	}
}

func newTestApp(t *testing.T, store *fakeStore) *App {
	t.Helper()
	projectDir := t.TempDir()
	if err := config.InitGuidelensDir(projectDir); err != nil {
		t.Fatalf("init guidelens dir: %v", err)
	}
	configPath := filepath.Join(projectDir, config.GuidelensDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(testRosterYAML), 0644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	app, err := NewApp(projectDir,
		WithClient(store),
		WithIdentity(identity.Static("reviewer@clinic.example")),
	)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return app
}

// openBoard selects the first roster entry and drives the fetch to
// completion synchronously.
func openBoard(t *testing.T, app *App) *reviewView {
	t.Helper()
	model, _ := app.openSelectedGuideline()
	if _, ok := model.(*App); !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	view := app.reviewView
	if view == nil {
		t.Fatalf("review view must be initialized")
	}
	msg := view.fetchGuideline()()
	fetched, ok := msg.(guidelineFetchedMsg)
	if !ok {
		t.Fatalf("expected fetch message, got %T", msg)
	}
	view.Update(fetched)
	if view.fetchErr != nil {
		t.Fatalf("fetch failed: %v", view.fetchErr)
	}
	return view
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOpenGuidelineLoadsBoard(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(t, store)
	view := openBoard(t, app)

	rec := view.controller.Record()
	if rec.ID != "guideline-001" {
		t.Fatalf("record id = %q, want guideline-001", rec.ID)
	}
	out := view.View()
	if !strings.Contains(out, "Asthma management (adult)") {
		t.Fatalf("board view missing guideline name:\n%s", out)
	}
	if !strings.Contains(out, "Unverified") {
		t.Fatalf("fresh board should show unverified status:\n%s", out)
	}
	if !strings.Contains(out, "colleague@clinic.example") {
		t.Fatalf("board view missing existing comment author:\n%s", out)
	}
}

func TestStatusKeysAreOptimistic(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(t, store)
	view := openBoard(t, app)

	view.Update(keyRunes("u"))
	if got := view.controller.Record().TextState.Status(); got != review.StatusAgree {
		t.Fatalf("after u, text status = %s, want %s", got, review.StatusAgree)
	}
	view.Update(keyRunes("d"))
	if got := view.controller.Record().TextState.Status(); got != review.StatusDisagree {
		t.Fatalf("after d, text status = %s, want %s", got, review.StatusDisagree)
	}
	view.Update(keyRunes("r"))
	if got := view.controller.Record().TextState.Status(); got != review.StatusUnverified {
		t.Fatalf("after r, text status = %s, want %s", got, review.StatusUnverified)
	}
	// Nothing should have been persisted yet; the debounce window is a
	// full second and the burst is still open.
	select {
	case body := <-store.pushed:
		t.Fatalf("unexpected early push: %+v", body)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestResetIgnoredWhileUnverified(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(t, store)
	view := openBoard(t, app)

	view.Update(keyRunes("r"))
	if got := view.controller.Record().TextState.Status(); got != review.StatusUnverified {
		t.Fatalf("reset on an unverified field changed status to %s", got)
	}
}

func TestCommentEditorRoundTrip(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(t, store)
	view := openBoard(t, app)

	view.Update(keyRunes("a"))
	if view.mode != modeEditComment {
		t.Fatalf("a should open the comment editor")
	}
	view.Update(keyRunes("Needs a citation for the dosage table."))
	view.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if view.mode != modeBrowse {
		t.Fatalf("commit should close the editor")
	}

	body := store.awaitPush(t)
	if !strings.Contains(body.GuidelineComments, "reviewer@clinic.example") {
		t.Fatalf("push missing reviewer comment key: %s", body.GuidelineComments)
	}
	if !strings.Contains(body.GuidelineComments, "Needs a citation") {
		t.Fatalf("push missing comment text: %s", body.GuidelineComments)
	}
	rec := view.controller.Record()
	if rec.Comments["reviewer@clinic.example"] != "Needs a citation for the dosage table." {
		t.Fatalf("record comment = %q", rec.Comments["reviewer@clinic.example"])
	}
}

func TestCommentDeleteNeedsConfirmation(t *testing.T) {
	store := newFakeStore()
	store.guideline.GuidelineData.GuidelineComments = `{"reviewer@clinic.example":"Old note."}`
	app := newTestApp(t, store)
	view := openBoard(t, app)

	view.Update(keyRunes("x"))
	if !view.commentDraft.ConfirmingDelete() {
		t.Fatalf("x should arm the delete confirmation")
	}
	view.Update(keyRunes("n"))
	if _, ok := view.controller.Record().Comments["reviewer@clinic.example"]; !ok {
		t.Fatalf("aborted delete must keep the comment")
	}

	view.Update(keyRunes("x"))
	view.Update(keyRunes("y"))
	body := store.awaitPush(t)
	if strings.Contains(body.GuidelineComments, "reviewer@clinic.example") {
		t.Fatalf("confirmed delete should drop the comment: %s", body.GuidelineComments)
	}
}

func TestEditorEscapeCancels(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(t, store)
	view := openBoard(t, app)
	before := view.controller.Record().Text

	view.Update(keyRunes("e"))
	if view.mode != modeEditText {
		t.Fatalf("e should open the text editor, mode = %d", view.mode)
	}
	if !view.CapturesEscape() {
		t.Fatalf("open editor must capture escape")
	}
	view.Update(keyRunes(" trailing garbage"))
	view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if view.mode != modeBrowse {
		t.Fatalf("escape should close the editor")
	}
	if got := view.controller.Record().Text; got != before {
		t.Fatalf("cancel must not change the record: %q", got)
	}
}

func TestFetchFailureMakesBoardInert(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("backend down")
	app := newTestApp(t, store)

	app.openSelectedGuideline()
	view := app.reviewView
	if view == nil {
		t.Fatalf("review view must be initialized")
	}
	msg := view.fetchGuideline()()
	view.Update(msg.(guidelineFetchedMsg))
	if view.fetchErr == nil {
		t.Fatalf("expected a fetch error")
	}

	// Mutation keys on the error page must be dropped; there is no
	// record to mutate and no id to write against.
	view.Update(keyRunes("u"))
	view.Update(keyRunes("d"))
	view.Update(keyRunes("a"))
	view.Update(keyRunes("e"))
	if view.mode != modeBrowse {
		t.Fatalf("editor opened on the error page")
	}
	view.Update(keyRunes("o"))
	if _, err := os.Stat(filepath.Join(app.config.ReportsDir(), "guideline-001-review.html")); err == nil {
		t.Fatalf("report exported from the error page")
	}
	select {
	case body := <-store.pushed:
		t.Fatalf("write issued from the error page: %+v", body)
	case <-time.After(100 * time.Millisecond):
	}
	if got := view.controller.Record().TextState.Status(); got != review.StatusUnverified {
		t.Fatalf("empty record was mutated, status = %s", got)
	}

	// r retries the load once the backend recovers.
	store.mu.Lock()
	store.getErr = nil
	store.mu.Unlock()
	retry := view.Update(keyRunes("r"))
	if retry == nil {
		t.Fatalf("r on the error page should refetch")
	}
	view.Update(retry().(guidelineFetchedMsg))
	if view.fetchErr != nil {
		t.Fatalf("retry should clear the error: %v", view.fetchErr)
	}
	if got := view.controller.Record().ID; got != "guideline-001" {
		t.Fatalf("retry did not load the record, id = %q", got)
	}
}

func TestEscapeReturnsToRoster(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(t, store)
	openBoard(t, app)

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	if app.state != stateRoster {
		t.Fatalf("escape from browse mode should return to roster, state = %d", app.state)
	}
	if app.reviewView != nil {
		t.Fatalf("review view should be torn down")
	}
}

func TestSaveNoticeLifecycle(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(t, store)
	openBoard(t, app)

	model, _ := app.Update(saveResultMsg{err: nil})
	app = model.(*App)
	if app.notice == nil || app.notice.kind != noticeSuccess {
		t.Fatalf("save success should raise a success notice")
	}
	firstSeq := app.noticeSeq

	// A newer notice invalidates the old expiry.
	model, _ = app.Update(saveResultMsg{err: context.DeadlineExceeded})
	app = model.(*App)
	if app.notice == nil || app.notice.kind != noticeError {
		t.Fatalf("save failure should raise an error notice")
	}
	model, _ = app.Update(noticeExpiredMsg{seq: firstSeq})
	app = model.(*App)
	if app.notice == nil {
		t.Fatalf("stale expiry must not clear the newer notice")
	}
	model, _ = app.Update(noticeExpiredMsg{seq: app.noticeSeq})
	app = model.(*App)
	if app.notice != nil {
		t.Fatalf("matching expiry should clear the notice")
	}
}

func TestExportReportWritesFile(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(t, store)
	view := openBoard(t, app)

	view.Update(keyRunes("o"))
	path := filepath.Join(app.config.ReportsDir(), "guideline-001-review.html")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report file missing: %v", err)
	}
	if !strings.Contains(string(data), "Asthma management (adult)") {
		t.Fatalf("report missing guideline name")
	}
}

func TestAttributeSheetDetection(t *testing.T) {
	store := newFakeStore()
	store.guideline.GuidelineData.GuidelineText = `{
  "current_symptoms": "wheeze, cough",
  "age_range": "18-65"
}`
	app := newTestApp(t, store)
	view := openBoard(t, app)

	out := view.View()
	if !strings.Contains(out, "Current Symptoms") {
		t.Fatalf("attribute sheet should render formatted keys:\n%s", out)
	}

	view.Update(keyRunes("e"))
	if view.mode != modeEditAttributes {
		t.Fatalf("e on an attribute sheet should open the sheet editor, mode = %d", view.mode)
	}
	if len(view.attributeDraft.Keys) != 2 {
		t.Fatalf("sheet editor keys = %v", view.attributeDraft.Keys)
	}
}
