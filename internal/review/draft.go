// internal/review/draft.go
//
// Draft buffers back the edit/cancel/save lifecycle of every panel.
// Entering edit mode snapshots the committed value, cancelling throws
// the snapshot away, committing validates and returns the value the
// caller should push into the canonical record. None of this touches
// the network; the controller decides what a commit costs.

package review

import (
	"errors"
	"sort"
	"strings"
)

// ErrEmptyAttributeField rejects an attribute add whose key or value is
// blank after trimming.
var ErrEmptyAttributeField = errors.New("both key and value must be non-empty")

// ErrEmptyComment rejects saving a comment that is blank after trimming.
var ErrEmptyComment = errors.New("comment must be non-empty")

// TextDraft is the free-text editor buffer. Empty text is a legal
// commit.
type TextDraft struct {
	Value string

	original string
	open     bool
}

// Enter snapshots the committed value and opens the draft.
func (d *TextDraft) Enter(committed string) {
	d.original = committed
	d.Value = committed
	d.open = true
}

// Open reports whether the draft is live.
func (d *TextDraft) Open() bool { return d.open }

// Cancel discards the draft and restores the snapshot.
func (d *TextDraft) Cancel() {
	d.Value = d.original
	d.open = false
}

// Commit closes the draft and returns the value to store.
func (d *TextDraft) Commit() string {
	d.open = false
	d.original = d.Value
	return d.Value
}

// ConditionDraft edits the delimited medical-condition list as a set of
// chips. Items stay exactly as typed while the draft is open; the
// trim/dedup pass happens once, at commit.
type ConditionDraft struct {
	Items []string

	original string
	open     bool
}

// Enter parses the stored value into working items.
func (d *ConditionDraft) Enter(stored string) {
	d.original = stored
	d.Items = ParseConditions(stored)
	d.open = true
}

// Open reports whether the draft is live.
func (d *ConditionDraft) Open() bool { return d.open }

// Add splits raw input on commas and appends every non-empty token.
func (d *ConditionDraft) Add(input string) {
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			d.Items = append(d.Items, part)
		}
	}
}

// Remove drops the item at index i.
func (d *ConditionDraft) Remove(i int) {
	if i < 0 || i >= len(d.Items) {
		return
	}
	d.Items = append(d.Items[:i], d.Items[i+1:]...)
}

// Cancel discards the working items.
func (d *ConditionDraft) Cancel() {
	d.Items = ParseConditions(d.original)
	d.open = false
}

// Commit cleans the working items and returns the stored form,
// prefix included. Committing an already-clean list is a no-op.
func (d *ConditionDraft) Commit() string {
	d.Items = CleanConditions(d.Items)
	stored := RenderConditions(d.Items)
	d.original = stored
	d.open = false
	return stored
}

// AttributeDraft edits a structured key/value sheet stored as JSON.
// Keys keep their on-screen order while the draft is open.
type AttributeDraft struct {
	Keys   []string
	Values map[string]string

	original string
	open     bool
}

// Enter decodes the stored JSON into the working sheet. An unparseable
// value opens an empty sheet and reports the parse error so the caller
// can log it; the editor itself stays usable.
func (d *AttributeDraft) Enter(stored string) error {
	d.original = stored
	d.open = true
	attrs, err := ParseAttributes(stored)
	d.Values = attrs
	d.Keys = sortedKeys(attrs)
	return err
}

// Open reports whether the draft is live.
func (d *AttributeDraft) Open() bool { return d.open }

// Set replaces the value of an existing key.
func (d *AttributeDraft) Set(key, value string) {
	if _, ok := d.Values[key]; !ok {
		return
	}
	d.Values[key] = value
}

// Add appends a new key/value pair. Blank keys or values are a
// validation error, not a silent drop.
func (d *AttributeDraft) Add(key, value string) error {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return ErrEmptyAttributeField
	}
	if _, exists := d.Values[key]; !exists {
		d.Keys = append(d.Keys, key)
	}
	d.Values[key] = value
	return nil
}

// Delete removes a key from the sheet.
func (d *AttributeDraft) Delete(key string) {
	if _, ok := d.Values[key]; !ok {
		return
	}
	delete(d.Values, key)
	for i, k := range d.Keys {
		if k == key {
			d.Keys = append(d.Keys[:i], d.Keys[i+1:]...)
			break
		}
	}
}

// Cancel discards the working sheet.
func (d *AttributeDraft) Cancel() {
	d.open = false
	d.Keys = nil
	d.Values = nil
}

// Commit normalizes the known list-valued keys (trim items, drop
// empties, re-join with ", ") and returns the indented JSON to store.
func (d *AttributeDraft) Commit() (string, error) {
	for key, value := range d.Values {
		if IsAttributeListKey(key) {
			items := []string{}
			for _, part := range strings.Split(value, ",") {
				if part = strings.TrimSpace(part); part != "" {
					items = append(items, part)
				}
			}
			d.Values[key] = strings.Join(items, ", ")
		}
	}
	stored, err := EncodeAttributes(d.Values)
	if err != nil {
		return "", err
	}
	d.original = stored
	d.open = false
	return stored, nil
}

// CommentDraft edits the calling reviewer's single comment. Saving
// upserts only the caller's entry; deleting requires an explicit
// confirmation step before it takes effect.
type CommentDraft struct {
	Author string
	Value  string

	open       bool
	confirming bool
}

// Enter opens the draft for the given author, pre-filled with that
// author's existing comment if there is one.
func (d *CommentDraft) Enter(author, existing string) {
	d.Author = author
	d.Value = existing
	d.open = true
	d.confirming = false
}

// Open reports whether the draft is live.
func (d *CommentDraft) Open() bool { return d.open }

// Cancel discards the draft.
func (d *CommentDraft) Cancel() {
	d.Value = ""
	d.open = false
	d.confirming = false
}

// Commit validates and returns the trimmed comment text to upsert for
// the draft's author.
func (d *CommentDraft) Commit() (string, error) {
	text := strings.TrimSpace(d.Value)
	if text == "" {
		return "", ErrEmptyComment
	}
	d.open = false
	d.Value = ""
	return text, nil
}

// RequestDelete arms the two-step delete.
func (d *CommentDraft) RequestDelete() {
	d.confirming = true
}

// ConfirmingDelete reports whether a delete is awaiting confirmation.
func (d *CommentDraft) ConfirmingDelete() bool { return d.confirming }

// ConfirmDelete completes the two-step delete, reporting whether the
// delete was actually armed.
func (d *CommentDraft) ConfirmDelete() bool {
	armed := d.confirming
	d.confirming = false
	return armed
}

// AbortDelete disarms a pending delete.
func (d *CommentDraft) AbortDelete() {
	d.confirming = false
}

// SortedAttributeKeys orders a sheet's keys for display.
func SortedAttributeKeys(m map[string]string) []string {
	return sortedKeys(m)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Pin the well-known clinical keys first, everything else after,
	// alphabetically within each group.
	rank := func(k string) int {
		for i, known := range attributeListKeys {
			if k == known {
				return i
			}
		}
		return len(attributeListKeys)
	}
	sort.Slice(keys, func(i, j int) bool {
		if rank(keys[i]) != rank(keys[j]) {
			return rank(keys[i]) < rank(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
