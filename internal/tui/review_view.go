// internal/tui/review_view.go
//
// The review board: one guideline's fields, their verification status,
// and the reviewer comment thread. Like the App, this is a bubbletea
// model; the App forwards messages here while stateReview is active.
//
// Edits happen in drafts. Opening an editor snapshots the committed
// value, Ctrl+S commits it through the controller, Esc throws the
// draft away. Status marks and commits mutate the controller directly,
// which is where the optimistic update and the persistence scheduling
// live.

package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yourusername/guidelens/internal/export"
	"github.com/yourusername/guidelens/internal/logbook"
	"github.com/yourusername/guidelens/internal/review"
)

// viewMode tracks which editor (if any) is open.
type viewMode int

const (
	modeBrowse viewMode = iota
	modeEditText
	modeEditConditions
	modeEditAttributes
	modeEditComment
)

// attrStage is the sub-state of the attribute sheet editor.
type attrStage int

const (
	attrBrowse attrStage = iota
	attrEditValue
	attrAddKey
	attrAddValue
)

// panel is the focusable region of the board.
type panel int

const (
	panelText panel = iota
	panelConditions
	panelCriteria
	panelComments
)

var panels = []panel{panelText, panelConditions, panelCriteria, panelComments}

// guidelineFetchedMsg reports the initial load.
type guidelineFetchedMsg struct {
	err error
}

// saveResultMsg surfaces one persistence outcome. The App turns it
// into a transient notification.
type saveResultMsg struct {
	err error
}

// reviewView drives the board for a single guideline.
type reviewView struct {
	app         *App
	guidelineID string
	name        string

	controller *review.Controller
	log        *logbook.GuidelineLog
	saves      chan review.SaveResult
	done       chan struct{}

	loading  bool
	fetchErr error

	focus panel
	mode  viewMode

	// Editors
	textDraft      review.TextDraft
	conditionDraft review.ConditionDraft
	attributeDraft review.AttributeDraft
	commentDraft   review.CommentDraft

	editor    textarea.Model
	lineInput textinput.Model

	// Selection cursors inside the condition and attribute editors
	conditionCursor int
	attributeCursor int
	attrStage       attrStage
	pendingAttrKey  string
	editErr         error

	width int
}

// newReviewView wires a controller for one guideline. The view owns
// the controller; Close releases it.
func newReviewView(app *App, guidelineID, name string) *reviewView {
	v := &reviewView{
		app:         app,
		guidelineID: guidelineID,
		name:        name,
		loading:     true,
		saves:       make(chan review.SaveResult, 16),
		done:        make(chan struct{}),
		width:       app.width,
	}
	v.log = app.logbook.Guideline(guidelineID)
	v.controller = review.NewController(app.client, app.who,
		review.WithDebounceWindow(app.config.DebounceWindow()),
		review.WithSaveListener(func(res review.SaveResult) {
			select {
			case v.saves <- res:
			case <-v.done:
			}
		}),
		review.WithLogf(v.log.Warn),
	)

	v.editor = textarea.New()
	v.editor.Placeholder = "Type here..."
	v.editor.CharLimit = 0
	v.lineInput = textinput.New()
	v.lineInput.CharLimit = 0
	return v
}

// Init kicks off the fetch and arms the save-result pump.
func (v *reviewView) Init() tea.Cmd {
	return tea.Batch(v.fetchGuideline(), v.awaitSaveResult())
}

// fetchGuideline loads the record from the document store.
func (v *reviewView) fetchGuideline() tea.Cmd {
	return func() tea.Msg {
		err := v.controller.Fetch(context.Background(), v.guidelineID)
		return guidelineFetchedMsg{err: err}
	}
}

// awaitSaveResult blocks on the listener channel and delivers the next
// persistence outcome. The App re-arms it after each delivery; the done
// channel releases the pump when the view is torn down.
func (v *reviewView) awaitSaveResult() tea.Cmd {
	saves, done := v.saves, v.done
	return func() tea.Msg {
		select {
		case res := <-saves:
			return saveResultMsg{err: res.Err}
		case <-done:
			return nil
		}
	}
}

// Close cancels pending debounced writes and releases the listener pump.
func (v *reviewView) Close() {
	v.controller.Close()
	close(v.done)
}

// CapturesEscape reports whether Esc is consumed here (an editor is
// open, or a delete confirmation is pending) rather than leaving the
// board.
func (v *reviewView) CapturesEscape() bool {
	return v.mode != modeBrowse || v.commentDraft.ConfirmingDelete()
}

// Update handles one message. Mutates in place; returns any follow-up command.
func (v *reviewView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.editor.SetWidth(max(20, msg.Width-10))
		v.lineInput.Width = max(20, msg.Width-14)
		return nil

	case guidelineFetchedMsg:
		v.loading = false
		v.fetchErr = msg.err
		if msg.err != nil {
			v.log.Error("Load failed: %v", msg.err)
		} else {
			v.log.Info("Loaded")
		}
		return nil

	case tea.KeyMsg:
		if v.loading {
			return nil
		}
		if v.fetchErr != nil {
			// The board is inert until a load succeeds. Mutating an
			// empty record would push garbage against an empty id.
			if msg.String() == "r" {
				v.loading = true
				v.fetchErr = nil
				return v.fetchGuideline()
			}
			return nil
		}
		switch v.mode {
		case modeBrowse:
			return v.updateBrowse(msg)
		case modeEditText:
			return v.updateTextEditor(msg)
		case modeEditConditions:
			return v.updateConditionEditor(msg)
		case modeEditAttributes:
			return v.updateAttributeEditor(msg)
		case modeEditComment:
			return v.updateCommentEditor(msg)
		}
	}
	return nil
}

// --- Browse mode ---

func (v *reviewView) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	rec := v.controller.Record()
	key := msg.String()

	// Pending comment delete confirmation swallows everything except
	// the answer keys.
	if v.commentDraft.ConfirmingDelete() {
		switch key {
		case "y", "enter":
			if v.commentDraft.ConfirmDelete() {
				v.controller.DeleteComment(v.reviewerEmail())
			}
		default:
			v.commentDraft.AbortDelete()
		}
		return nil
	}

	switch key {
	case "tab", "down", "j":
		v.focus = panels[(int(v.focus)+1)%len(panels)]
	case "shift+tab", "up", "k":
		v.focus = panels[(int(v.focus)+len(panels)-1)%len(panels)]

	case "u":
		if f, ok := v.focusedField(); ok {
			v.controller.UpdateStatus(f, true)
		}
	case "d":
		if f, ok := v.focusedField(); ok {
			v.controller.UpdateStatus(f, false)
		}
	case "r":
		// Reset only means something once the field is verified.
		if f, ok := v.focusedField(); ok && rec.State(f).Verified {
			v.controller.ResetStatus(f)
		}

	case "e":
		return v.openEditor(rec)

	case "a":
		v.commentDraft.Enter(v.reviewerEmail(), rec.Comments[v.reviewerEmail()])
		v.editor.SetValue(v.commentDraft.Value)
		v.editor.SetHeight(6)
		v.editor.Focus()
		v.mode = modeEditComment
		v.editErr = nil
	case "x":
		if _, ok := rec.Comments[v.reviewerEmail()]; ok {
			v.commentDraft.Enter(v.reviewerEmail(), rec.Comments[v.reviewerEmail()])
			v.commentDraft.RequestDelete()
		}

	case "o":
		return v.exportReport(rec)
	}
	return nil
}

// focusedField maps the focused panel to a record field. The comments
// panel has no verification state.
func (v *reviewView) focusedField() (review.Field, bool) {
	switch v.focus {
	case panelText:
		return review.FieldText, true
	case panelConditions:
		return review.FieldMedicalCondition, true
	case panelCriteria:
		return review.FieldCriteria, true
	}
	return "", false
}

// openEditor enters the edit mode matching the focused panel.
func (v *reviewView) openEditor(rec review.Record) tea.Cmd {
	v.editErr = nil
	switch v.focus {
	case panelText:
		if review.LooksLikeAttributes(rec.Text) {
			if err := v.attributeDraft.Enter(rec.Text); err != nil {
				v.log.Warn("Attribute sheet was unreadable, starting empty: %v", err)
			}
			v.attributeCursor = 0
			v.attrStage = attrBrowse
			v.mode = modeEditAttributes
			return nil
		}
		v.textDraft.Enter(rec.Text)
		v.editor.SetValue(v.textDraft.Value)
		v.editor.SetHeight(10)
		v.editor.Focus()
		v.mode = modeEditText
	case panelConditions:
		v.conditionDraft.Enter(rec.MedicalCondition)
		v.conditionCursor = 0
		v.lineInput.Placeholder = "Add condition (comma separates several)"
		v.lineInput.SetValue("")
		v.lineInput.Focus()
		v.mode = modeEditConditions
	case panelCriteria:
		v.textDraft.Enter(rec.Criteria)
		v.editor.SetValue(v.textDraft.Value)
		v.editor.SetHeight(10)
		v.editor.Focus()
		v.mode = modeEditText
	case panelComments:
		v.commentDraft.Enter(v.reviewerEmail(), rec.Comments[v.reviewerEmail()])
		v.editor.SetValue(v.commentDraft.Value)
		v.editor.SetHeight(6)
		v.editor.Focus()
		v.mode = modeEditComment
	}
	return nil
}

// --- Text / criteria editor ---

func (v *reviewView) updateTextEditor(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.textDraft.Cancel()
		v.editor.Blur()
		v.mode = modeBrowse
		return nil
	case "ctrl+s":
		v.textDraft.Value = v.editor.Value()
		committed := v.textDraft.Commit()
		if f, ok := v.focusedField(); ok {
			v.controller.ChangeText(f, committed)
		}
		v.editor.Blur()
		v.mode = modeBrowse
		return nil
	}
	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	v.textDraft.Value = v.editor.Value()
	return cmd
}

// --- Condition list editor ---

func (v *reviewView) updateConditionEditor(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.conditionDraft.Cancel()
		v.lineInput.Blur()
		v.mode = modeBrowse
		return nil
	case "ctrl+s":
		v.controller.ChangeText(review.FieldMedicalCondition, v.conditionDraft.Commit())
		v.lineInput.Blur()
		v.mode = modeBrowse
		return nil
	case "enter":
		v.conditionDraft.Add(v.lineInput.Value())
		v.lineInput.SetValue("")
		return nil
	case "up":
		if v.conditionCursor > 0 {
			v.conditionCursor--
		}
		return nil
	case "down":
		if v.conditionCursor < len(v.conditionDraft.Items)-1 {
			v.conditionCursor++
		}
		return nil
	case "ctrl+d":
		v.conditionDraft.Remove(v.conditionCursor)
		if v.conditionCursor >= len(v.conditionDraft.Items) && v.conditionCursor > 0 {
			v.conditionCursor--
		}
		return nil
	}
	var cmd tea.Cmd
	v.lineInput, cmd = v.lineInput.Update(msg)
	return cmd
}

// --- Attribute sheet editor ---

func (v *reviewView) updateAttributeEditor(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	switch v.attrStage {
	case attrBrowse:
		switch key {
		case "esc":
			v.attributeDraft.Cancel()
			v.mode = modeBrowse
		case "ctrl+s":
			encoded, err := v.attributeDraft.Commit()
			if err != nil {
				v.editErr = err
				return nil
			}
			v.controller.ChangeText(review.FieldText, encoded)
			v.mode = modeBrowse
		case "up", "k":
			if v.attributeCursor > 0 {
				v.attributeCursor--
			}
		case "down", "j":
			if v.attributeCursor < len(v.attributeDraft.Keys)-1 {
				v.attributeCursor++
			}
		case "e", "enter":
			if v.attributeCursor < len(v.attributeDraft.Keys) {
				k := v.attributeDraft.Keys[v.attributeCursor]
				v.lineInput.Placeholder = "Value"
				v.lineInput.SetValue(v.attributeDraft.Values[k])
				v.lineInput.Focus()
				v.pendingAttrKey = k
				v.attrStage = attrEditValue
			}
		case "n":
			v.lineInput.Placeholder = "New field name"
			v.lineInput.SetValue("")
			v.lineInput.Focus()
			v.attrStage = attrAddKey
		case "ctrl+d":
			if v.attributeCursor < len(v.attributeDraft.Keys) {
				v.attributeDraft.Delete(v.attributeDraft.Keys[v.attributeCursor])
				if v.attributeCursor >= len(v.attributeDraft.Keys) && v.attributeCursor > 0 {
					v.attributeCursor--
				}
			}
		}
		return nil

	case attrEditValue:
		switch key {
		case "esc":
			v.lineInput.Blur()
			v.attrStage = attrBrowse
			return nil
		case "enter":
			v.attributeDraft.Set(v.pendingAttrKey, v.lineInput.Value())
			v.lineInput.Blur()
			v.attrStage = attrBrowse
			return nil
		}

	case attrAddKey:
		switch key {
		case "esc":
			v.lineInput.Blur()
			v.attrStage = attrBrowse
			return nil
		case "enter":
			v.pendingAttrKey = v.lineInput.Value()
			v.lineInput.Placeholder = "Value"
			v.lineInput.SetValue("")
			v.attrStage = attrAddValue
			return nil
		}

	case attrAddValue:
		switch key {
		case "esc":
			v.lineInput.Blur()
			v.attrStage = attrBrowse
			return nil
		case "enter":
			if err := v.attributeDraft.Add(v.pendingAttrKey, v.lineInput.Value()); err != nil {
				v.editErr = err
				return nil
			}
			v.editErr = nil
			v.lineInput.Blur()
			v.attrStage = attrBrowse
			return nil
		}
	}

	var cmd tea.Cmd
	v.lineInput, cmd = v.lineInput.Update(msg)
	return cmd
}

// --- Comment editor ---

func (v *reviewView) updateCommentEditor(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.commentDraft.Cancel()
		v.editor.Blur()
		v.mode = modeBrowse
		v.editErr = nil
		return nil
	case "ctrl+s":
		v.commentDraft.Value = v.editor.Value()
		text, err := v.commentDraft.Commit()
		if err != nil {
			v.editErr = err
			v.commentDraft.Enter(v.reviewerEmail(), v.editor.Value())
			return nil
		}
		v.controller.SaveComment(v.reviewerEmail(), text)
		v.editor.Blur()
		v.mode = modeBrowse
		v.editErr = nil
		return nil
	}
	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	v.commentDraft.Value = v.editor.Value()
	return cmd
}

// --- Report export ---

func (v *reviewView) exportReport(rec review.Record) tea.Cmd {
	html, err := export.Report(rec)
	if err != nil {
		v.log.Error("Report export failed: %v", err)
		return v.app.showNotice(noticeError, "Failed to export report")
	}
	name := fmt.Sprintf("%s-review.html", sanitizeFilename(v.guidelineID))
	path := filepath.Join(v.app.config.ReportsDir(), name)
	if err := os.WriteFile(path, html, 0644); err != nil {
		v.log.Error("Report export failed: %v", err)
		return v.app.showNotice(noticeError, "Failed to export report")
	}
	v.log.Info("Report written to %s", path)
	return v.app.showNotice(noticeSuccess, fmt.Sprintf("Report written to %s", name))
}

func (v *reviewView) reviewerEmail() string {
	if email, ok := v.app.who.CurrentEmail(); ok {
		return email
	}
	return "unknown"
}

// --- Rendering ---

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	focusedPanelStyle = panelStyle.
				BorderForeground(lipgloss.Color("#5B8DEF"))
	panelTitleStyle = lipgloss.NewStyle().Bold(true)

	statusStyles = map[review.Status]lipgloss.Style{
		review.StatusUnverified: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
		review.StatusAgree:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50")),
		review.StatusDisagree:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
	}
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB454"))
)

func (v *reviewView) View() string {
	if v.loading {
		return dimStyle.Render(fmt.Sprintf("Loading guideline %s ...", v.guidelineID))
	}
	if v.fetchErr != nil {
		return warnStyle.Render(fmt.Sprintf(
			"Could not load guideline %s: %v\n\nPress r to retry, Esc to return to the roster.",
			v.guidelineID, v.fetchErr))
	}

	rec := v.controller.Record()
	title := rec.Name
	if title == "" {
		title = v.name
	}
	head := panelTitleStyle.Render(fmt.Sprintf("REVIEWING · %s", title))
	if rec.PDFURL != "" {
		head += "\n" + dimStyle.Render(fmt.Sprintf("Source PDF: %s", rec.PDFURL))
	}

	sections := []string{
		head,
		v.renderFieldPanel(panelText, rec),
		v.renderFieldPanel(panelConditions, rec),
		v.renderFieldPanel(panelCriteria, rec),
		v.renderCommentsPanel(rec),
		v.renderHelp(),
	}
	return strings.Join(sections, "\n")
}

// renderFieldPanel draws one verifiable field with its status badge,
// or the open editor when this panel is being edited.
func (v *reviewView) renderFieldPanel(p panel, rec review.Record) string {
	f, _ := fieldForPanel(p)
	status := rec.State(f).Status()
	badge := statusStyles[status].Render(fmt.Sprintf("[%s]", status))
	title := fmt.Sprintf("%s %s", panelTitleStyle.Render(f.Title()), badge)

	body := v.renderFieldBody(p, rec, f)
	style := panelStyle
	if v.focus == p {
		style = focusedPanelStyle
	}
	return style.Width(max(40, v.width-4)).Render(title + "\n" + body)
}

func (v *reviewView) renderFieldBody(p panel, rec review.Record, f review.Field) string {
	editingHere := v.focus == p && v.mode != modeBrowse && v.mode != modeEditComment

	if editingHere {
		switch v.mode {
		case modeEditText:
			return v.editor.View() + "\n" + dimStyle.Render("Ctrl+S save · Esc cancel")
		case modeEditConditions:
			return v.renderConditionEditor()
		case modeEditAttributes:
			return v.renderAttributeEditor()
		}
	}

	switch p {
	case panelText:
		if review.LooksLikeAttributes(rec.Text) {
			return v.renderAttributeSheet(rec.Text)
		}
		return valueOrPlaceholder(rec.Text)
	case panelConditions:
		items := review.ParseConditions(rec.MedicalCondition)
		if len(items) == 0 {
			return dimStyle.Render("(no conditions listed)")
		}
		return strings.Join(items, ", ")
	case panelCriteria:
		return valueOrPlaceholder(rec.Criteria)
	}
	return ""
}

func (v *reviewView) renderConditionEditor() string {
	var b strings.Builder
	for i, item := range v.conditionDraft.Items {
		marker := "  "
		if i == v.conditionCursor {
			marker = "> "
		}
		b.WriteString(marker + item + "\n")
	}
	if len(v.conditionDraft.Items) == 0 {
		b.WriteString(dimStyle.Render("(empty list)") + "\n")
	}
	b.WriteString(v.lineInput.View() + "\n")
	b.WriteString(dimStyle.Render("Enter add · ↑/↓ select · Ctrl+D remove · Ctrl+S save · Esc cancel"))
	return b.String()
}

func (v *reviewView) renderAttributeEditor() string {
	var b strings.Builder
	for i, k := range v.attributeDraft.Keys {
		marker := "  "
		if i == v.attributeCursor && v.attrStage == attrBrowse {
			marker = "> "
		}
		b.WriteString(fmt.Sprintf("%s%s: %s\n", marker, review.FormatAttributeKey(k), v.attributeDraft.Values[k]))
	}
	if len(v.attributeDraft.Keys) == 0 {
		b.WriteString(dimStyle.Render("(no fields)") + "\n")
	}
	switch v.attrStage {
	case attrEditValue:
		b.WriteString(fmt.Sprintf("%s: %s\n", review.FormatAttributeKey(v.pendingAttrKey), v.lineInput.View()))
	case attrAddKey:
		b.WriteString("New field: " + v.lineInput.View() + "\n")
	case attrAddValue:
		b.WriteString(fmt.Sprintf("%s: %s\n", review.FormatAttributeKey(v.pendingAttrKey), v.lineInput.View()))
	}
	if v.editErr != nil {
		b.WriteString(warnStyle.Render(v.editErr.Error()) + "\n")
	}
	b.WriteString(dimStyle.Render("e edit · n new field · Ctrl+D delete · Ctrl+S save · Esc cancel"))
	return b.String()
}

// renderAttributeSheet pretty-prints the stored JSON object read-only.
func (v *reviewView) renderAttributeSheet(raw string) string {
	attrs, err := review.ParseAttributes(raw)
	if err != nil {
		return warnStyle.Render("(attribute sheet is unreadable; press e to rebuild it)")
	}
	keys := review.SortedAttributeKeys(attrs)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s: %s", panelTitleStyle.Render(review.FormatAttributeKey(k)), attrs[k]))
	}
	return b.String()
}

func (v *reviewView) renderCommentsPanel(rec review.Record) string {
	title := panelTitleStyle.Render("Reviewer Comments")
	me := v.reviewerEmail()

	var b strings.Builder
	if v.focus == panelComments && v.mode == modeEditComment {
		b.WriteString(v.editor.View() + "\n")
		if v.editErr != nil {
			b.WriteString(warnStyle.Render(v.editErr.Error()) + "\n")
		}
		b.WriteString(dimStyle.Render("Ctrl+S save · Esc cancel"))
	} else if v.mode == modeEditComment {
		// Comment editor opened with "a" while another panel had focus.
		b.WriteString(v.editor.View() + "\n")
		if v.editErr != nil {
			b.WriteString(warnStyle.Render(v.editErr.Error()) + "\n")
		}
		b.WriteString(dimStyle.Render("Ctrl+S save · Esc cancel"))
	} else {
		authors := rec.CommentAuthors()
		if len(authors) == 0 {
			b.WriteString(dimStyle.Render("(no comments yet · press a to add yours)"))
		}
		for i, author := range authors {
			if i > 0 {
				b.WriteString("\n")
			}
			label := author
			if author == me {
				label += " (you)"
			}
			b.WriteString(panelTitleStyle.Render(label) + "\n" + rec.Comments[author])
		}
		if v.commentDraft.ConfirmingDelete() {
			b.WriteString("\n" + warnStyle.Render("Delete your comment? y to confirm, any other key to cancel"))
		}
	}

	style := panelStyle
	if v.focus == panelComments {
		style = focusedPanelStyle
	}
	return style.Width(max(40, v.width-4)).Render(title + "\n" + b.String())
}

func (v *reviewView) renderHelp() string {
	if v.mode != modeBrowse {
		return ""
	}
	return dimStyle.Render(
		"u agree · d disagree · r reset · e edit · a comment · x delete comment · o export report · tab focus · esc back")
}

func fieldForPanel(p panel) (review.Field, bool) {
	switch p {
	case panelText:
		return review.FieldText, true
	case panelConditions:
		return review.FieldMedicalCondition, true
	case panelCriteria:
		return review.FieldCriteria, true
	}
	return review.FieldText, false
}

func valueOrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return dimStyle.Render("(empty)")
	}
	return s
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, s)
}
