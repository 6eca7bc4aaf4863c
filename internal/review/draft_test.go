package review

import (
	"errors"
	"testing"
)

func TestTextDraftCancelRestoresSnapshot(t *testing.T) {
	var d TextDraft
	d.Enter("committed value")
	d.Value = "half-typed edit"
	d.Cancel()
	if d.Open() {
		t.Fatalf("draft should close on cancel")
	}
	if d.Value != "committed value" {
		t.Fatalf("cancel leaked the edit: %q", d.Value)
	}
}

func TestTextDraftCommitAllowsEmpty(t *testing.T) {
	var d TextDraft
	d.Enter("old")
	d.Value = ""
	if got := d.Commit(); got != "" {
		t.Fatalf("empty commit should be legal, got %q", got)
	}
}

func TestConditionDraftCommitCleansOnce(t *testing.T) {
	var d ConditionDraft
	d.Enter("Medical Conditions:")
	d.Add("flu,  , cold,flu")
	stored := d.Commit()
	if stored != "Medical Conditions: flu, cold" {
		t.Fatalf("unexpected stored form: %q", stored)
	}

	// Committing the already-clean list again is idempotent.
	d.Enter(stored)
	if again := d.Commit(); again != stored {
		t.Fatalf("second commit changed the value: %q vs %q", again, stored)
	}
}

func TestConditionDraftRemoveAndCancel(t *testing.T) {
	var d ConditionDraft
	d.Enter("Medical Conditions: flu, cold")
	d.Remove(0)
	if len(d.Items) != 1 || d.Items[0] != "cold" {
		t.Fatalf("remove misbehaved: %v", d.Items)
	}
	d.Cancel()
	if len(d.Items) != 2 {
		t.Fatalf("cancel should restore the committed items, got %v", d.Items)
	}
}

func TestAttributeDraftAddValidation(t *testing.T) {
	var d AttributeDraft
	if err := d.Enter("{}"); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	if err := d.Add("  ", "value"); !errors.Is(err, ErrEmptyAttributeField) {
		t.Fatalf("blank key must be rejected, got %v", err)
	}
	if err := d.Add("key", "   "); !errors.Is(err, ErrEmptyAttributeField) {
		t.Fatalf("blank value must be rejected, got %v", err)
	}
	if err := d.Add(" lab_reports ", " all clear "); err != nil {
		t.Fatalf("valid add failed: %v", err)
	}
	if d.Values["lab_reports"] != "all clear" {
		t.Fatalf("add did not trim: %v", d.Values)
	}
}

func TestAttributeDraftCommitCleansListKeys(t *testing.T) {
	var d AttributeDraft
	if err := d.Enter(`{"current_symptoms": "fever, , cough ,", "notes": "a,  b"}`); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	stored, err := d.Commit()
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	attrs, err := ParseAttributes(stored)
	if err != nil {
		t.Fatalf("stored form unparseable: %v", err)
	}
	if attrs["current_symptoms"] != "fever, cough" {
		t.Fatalf("list key not cleaned: %q", attrs["current_symptoms"])
	}
	// Freeform keys are left exactly as typed.
	if attrs["notes"] != "a,  b" {
		t.Fatalf("freeform key was rewritten: %q", attrs["notes"])
	}
}

func TestAttributeDraftEnterRecoversFromGarbage(t *testing.T) {
	var d AttributeDraft
	err := d.Enter("{broken")
	if err == nil {
		t.Fatalf("expected a parse error to report")
	}
	if !d.Open() {
		t.Fatalf("editor must stay usable after a recovered parse failure")
	}
	if len(d.Values) != 0 {
		t.Fatalf("expected an empty sheet, got %v", d.Values)
	}
}

func TestAttributeDraftKeyOrderPinsKnownKeys(t *testing.T) {
	var d AttributeDraft
	if err := d.Enter(`{"zebra": "z", "current_medications": "x", "current_symptoms": "y"}`); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	if len(d.Keys) != 3 || d.Keys[0] != "current_symptoms" || d.Keys[1] != "current_medications" || d.Keys[2] != "zebra" {
		t.Fatalf("unexpected key order: %v", d.Keys)
	}
}

func TestCommentDraftCommitTrimsAndValidates(t *testing.T) {
	var d CommentDraft
	d.Enter("a@x.com", "")
	d.Value = "   "
	if _, err := d.Commit(); !errors.Is(err, ErrEmptyComment) {
		t.Fatalf("blank comment must be rejected, got %v", err)
	}
	d.Value = "  looks fine  "
	text, err := d.Commit()
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if text != "looks fine" {
		t.Fatalf("commit did not trim: %q", text)
	}
}

func TestCommentDraftPrefillsExisting(t *testing.T) {
	var d CommentDraft
	d.Enter("a@x.com", "earlier note")
	if d.Value != "earlier note" {
		t.Fatalf("existing comment not pre-filled: %q", d.Value)
	}
}

func TestCommentDeleteNeedsConfirmation(t *testing.T) {
	var d CommentDraft
	if d.ConfirmDelete() {
		t.Fatalf("unarmed confirm must not delete")
	}
	d.RequestDelete()
	if !d.ConfirmingDelete() {
		t.Fatalf("delete should be armed")
	}
	d.AbortDelete()
	if d.ConfirmDelete() {
		t.Fatalf("aborted delete must not fire")
	}
	d.RequestDelete()
	if !d.ConfirmDelete() {
		t.Fatalf("armed confirm should fire")
	}
	if d.ConfirmingDelete() {
		t.Fatalf("confirm should disarm the delete")
	}
}
