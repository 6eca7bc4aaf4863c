// internal/review/controller.go
//
// The controller owns the canonical guideline record. Panels raise
// intents (mark agree, reset, commit an edit, save a comment); the
// controller merges each intent into the record synchronously, then
// picks a write path: status flips go through the debounce gate,
// everything deliberate is written immediately. All mutations are
// optimistic: the record shows the new value whether or not the write
// lands, and a failed write is surfaced but never rolled back.

package review

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/guidelens/internal/api"
	"github.com/yourusername/guidelens/internal/identity"
)

// unknownAuthor is attributed to writes issued without a session.
const unknownAuthor = "unknown"

// Client is the document-store surface the controller needs.
type Client interface {
	GetGuideline(ctx context.Context, guidelineID string) (api.Guideline, error)
	PushGuidelineData(ctx context.Context, guidelineID string, body api.PushRequest) error
}

// SaveResult reports the outcome of one persistence write.
type SaveResult struct {
	Err error
}

// Option customizes controller construction.
type Option func(*Controller)

// WithDebounceWindow overrides the status-update coalescing window.
func WithDebounceWindow(window time.Duration) Option {
	return func(c *Controller) {
		if window > 0 {
			c.window = window
		}
	}
}

// WithSaveListener registers the callback invoked after every write.
// The callback runs on a write goroutine, not the caller's.
func WithSaveListener(fn func(SaveResult)) Option {
	return func(c *Controller) {
		if fn != nil {
			c.onSave = fn
		}
	}
}

// WithLogf routes recovered-parse and write-failure logging. Defaults
// to discarding.
func WithLogf(fn func(format string, args ...any)) Option {
	return func(c *Controller) {
		if fn != nil {
			c.logf = fn
		}
	}
}

// Controller mediates every mutation of one guideline record.
type Controller struct {
	client Client
	who    identity.Provider
	window time.Duration
	onSave func(SaveResult)
	logf   func(format string, args ...any)

	mu     sync.Mutex
	rec    Record
	have   bool
	closed bool
	gate   *saveGate

	// writes funnels every immediate write through one goroutine so a
	// pair of rapid intents (save a comment, then delete it) reaches
	// the backend in intent order.
	writes chan api.PushRequest
}

// NewController builds a controller for one guideline selection. Tear
// it down with Close before selecting another guideline.
func NewController(client Client, who identity.Provider, opts ...Option) *Controller {
	c := &Controller{
		client: client,
		who:    who,
		window: DefaultDebounceWindow,
		onSave: func(SaveResult) {},
		logf:   func(string, ...any) {},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.gate = newSaveGate(c.window, c.persist)
	c.writes = make(chan api.PushRequest, 32)
	go func() {
		for snapshot := range c.writes {
			c.gate.FlushImmediate(snapshot)
		}
	}()
	return c
}

// Fetch loads the guideline in one network read and replaces the
// canonical record on success. On failure the previous record (if any)
// is left standing and the error is returned for the caller to show.
// Concurrent fetches are not deduplicated; the last response to land
// wins.
func (c *Controller) Fetch(ctx context.Context, guidelineID string) error {
	g, err := c.client.GetGuideline(ctx, guidelineID)
	if err != nil {
		return fmt.Errorf("fetch guideline: %w", err)
	}
	comments, perr := ParseComments(g.GuidelineData.GuidelineComments)
	if perr != nil {
		// Recovered locally: an empty map, never a dead screen.
		c.logf("recovered comment parse failure for %s: %v", guidelineID, perr)
	}
	rec := Record{
		ID:               g.GuidelineID,
		Name:             g.GuidelineName,
		Text:             g.GuidelineData.GuidelineText,
		MedicalCondition: g.GuidelineData.GuidelineMedicalCondition,
		Criteria:         g.GuidelineData.GuidelineCriteria,
		PDFURL:           g.GuidelineData.GuidelinePDF,
		Comments:         comments,
		TextState: VerificationState{
			Verified: g.GuidelineData.GuidelineTextVerified,
			Agree:    g.GuidelineData.GuidelineTextLGTM,
		},
		MedicalConditionState: VerificationState{
			Verified: g.GuidelineData.GuidelineMedicalConditionVerified,
			Agree:    g.GuidelineData.GuidelineMedicalConditionLGTM,
		},
		CriteriaState: VerificationState{
			Verified: g.GuidelineData.GuidelineCriteriaVerified,
			Agree:    g.GuidelineData.GuidelineCriteriaLGTM,
		},
	}
	if rec.ID == "" {
		rec.ID = guidelineID
	}
	c.mu.Lock()
	c.rec = rec
	c.have = true
	c.mu.Unlock()
	return nil
}

// Loaded reports whether a record has been fetched.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.have
}

// Record returns a render-safe copy of the canonical record.
func (c *Controller) Record() Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec.Clone()
}

// UpdateStatus records an agree/disagree judgment on a field and
// schedules a debounced write.
func (c *Controller) UpdateStatus(field Field, agree bool) {
	c.mu.Lock()
	if !c.mutableLocked() {
		c.mu.Unlock()
		return
	}
	state := c.rec.State(field)
	if state == nil {
		c.mu.Unlock()
		return
	}
	if agree {
		state.MarkAgree()
	} else {
		state.MarkDisagree()
	}
	snapshot := c.payloadLocked()
	c.mu.Unlock()
	c.gate.Schedule(snapshot)
}

// ResetStatus clears a field back to unverified and schedules a
// debounced write.
func (c *Controller) ResetStatus(field Field) {
	c.mu.Lock()
	if !c.mutableLocked() {
		c.mu.Unlock()
		return
	}
	state := c.rec.State(field)
	if state == nil {
		c.mu.Unlock()
		return
	}
	state.Reset()
	snapshot := c.payloadLocked()
	c.mu.Unlock()
	c.gate.Schedule(snapshot)
}

// ChangeText replaces a field's committed value and writes immediately.
// Edits are deliberate and rare; they must not be lost to coalescing.
func (c *Controller) ChangeText(field Field, value string) {
	c.mu.Lock()
	if !c.mutableLocked() {
		c.mu.Unlock()
		return
	}
	c.rec.SetValue(field, value)
	snapshot := c.payloadLocked()
	c.mu.Unlock()
	c.writes <- snapshot
}

// SaveComment upserts one author's comment and writes immediately.
func (c *Controller) SaveComment(author, text string) {
	c.mu.Lock()
	if !c.mutableLocked() {
		c.mu.Unlock()
		return
	}
	if c.rec.Comments == nil {
		c.rec.Comments = map[string]string{}
	}
	c.rec.Comments[author] = text
	snapshot := c.payloadLocked()
	c.mu.Unlock()
	c.writes <- snapshot
}

// DeleteComment removes one author's comment and writes immediately.
func (c *Controller) DeleteComment(author string) {
	c.mu.Lock()
	if !c.mutableLocked() {
		c.mu.Unlock()
		return
	}
	delete(c.rec.Comments, author)
	snapshot := c.payloadLocked()
	c.mu.Unlock()
	c.writes <- snapshot
}

// Close cancels any pending debounced write and releases the writer
// goroutine. Idempotent, but part of the single-caller contract: it
// must not race the mutation methods.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	c.gate.Stop()
	close(c.writes)
}

// mutableLocked reports whether mutation intents are accepted: a record
// must have been fetched and the controller not torn down. Intents
// raised from the fetch-failure screen land here and are dropped;
// anything else would write an empty payload against an empty id.
func (c *Controller) mutableLocked() bool {
	return c.have && !c.closed
}

// payloadLocked builds the full persistence payload from the current
// record. Callers must hold c.mu.
func (c *Controller) payloadLocked() api.PushRequest {
	author := unknownAuthor
	if email, ok := c.who.CurrentEmail(); ok {
		author = email
	}
	return api.PushRequest{
		GuidelineName:             c.rec.Name,
		GuidelineText:             c.rec.Text,
		GuidelineMedicalCondition: c.rec.MedicalCondition,
		GuidelineCriteria:         c.rec.Criteria,
		GuidelinePDF:              c.rec.PDFURL,
		GuidelineComments:         EncodeComments(c.rec.Comments),

		GuidelineTextVerified:             boolToInt(c.rec.TextState.Verified),
		GuidelineMedicalConditionVerified: boolToInt(c.rec.MedicalConditionState.Verified),
		GuidelineCriteriaVerified:         boolToInt(c.rec.CriteriaState.Verified),
		GuidelineTextLGTM:                 boolToInt(c.rec.TextState.Agree),
		GuidelineMedicalConditionLGTM:     boolToInt(c.rec.MedicalConditionState.Agree),
		GuidelineCriteriaLGTM:             boolToInt(c.rec.CriteriaState.Agree),

		UpdatedBy: author,
	}
}

// persist issues one write and reports the outcome. Failures leave the
// optimistic record in place; local and remote state may diverge until
// the next successful write, which is the accepted trade.
func (c *Controller) persist(snapshot api.PushRequest) {
	c.mu.Lock()
	id := c.rec.ID
	c.mu.Unlock()
	err := c.client.PushGuidelineData(context.Background(), id, snapshot)
	if err != nil {
		c.logf("save failed for %s: %v", id, err)
	}
	c.onSave(SaveResult{Err: err})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
