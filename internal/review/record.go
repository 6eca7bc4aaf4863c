// internal/review/record.go
//
// The canonical in-memory guideline record and the little codecs that
// live around it: the JSON-encoded comment map, the prefixed
// medical-condition list and the structured attribute sheet. The
// backend stores all three as plain strings; decoding them is this
// package's job, not the server's.

package review

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Field names one of the three independently verifiable guideline
// sections. The values double as the wire field names.
type Field string

const (
	FieldText             Field = "guideline_text"
	FieldMedicalCondition Field = "guideline_medical_condition"
	FieldCriteria         Field = "guideline_criteria"
)

// Fields lists the verifiable sections in display order.
var Fields = []Field{FieldText, FieldMedicalCondition, FieldCriteria}

// Title returns the reviewer-facing panel title for a field.
func (f Field) Title() string {
	switch f {
	case FieldText:
		return "Guideline Text"
	case FieldMedicalCondition:
		return "Medical Condition"
	case FieldCriteria:
		return "Guideline Criteria"
	}
	return string(f)
}

// Record is the canonical guideline under review. It is created empty
// when a guideline is selected, filled by one fetch, then mutated in
// place by every field intent until the reviewer moves on.
type Record struct {
	ID   string
	Name string

	Text             string
	MedicalCondition string
	Criteria         string
	PDFURL           string

	// Comments maps reviewer email to that reviewer's single comment.
	Comments map[string]string

	TextState             VerificationState
	MedicalConditionState VerificationState
	CriteriaState         VerificationState
}

// Value returns the current committed value of a field.
func (r *Record) Value(f Field) string {
	switch f {
	case FieldText:
		return r.Text
	case FieldMedicalCondition:
		return r.MedicalCondition
	case FieldCriteria:
		return r.Criteria
	}
	return ""
}

// SetValue replaces the committed value of a field.
func (r *Record) SetValue(f Field, value string) {
	switch f {
	case FieldText:
		r.Text = value
	case FieldMedicalCondition:
		r.MedicalCondition = value
	case FieldCriteria:
		r.Criteria = value
	}
}

// State returns the verification state backing a field.
func (r *Record) State(f Field) *VerificationState {
	switch f {
	case FieldText:
		return &r.TextState
	case FieldMedicalCondition:
		return &r.MedicalConditionState
	case FieldCriteria:
		return &r.CriteriaState
	}
	return nil
}

// Clone returns a copy safe to hand to a renderer while the original
// keeps being mutated. The comment map is the only reference field.
func (r *Record) Clone() Record {
	out := *r
	out.Comments = make(map[string]string, len(r.Comments))
	for k, v := range r.Comments {
		out.Comments[k] = v
	}
	return out
}

// CommentAuthors returns the comment authors in stable order.
func (r *Record) CommentAuthors() []string {
	authors := make([]string, 0, len(r.Comments))
	for a := range r.Comments {
		authors = append(authors, a)
	}
	sort.Strings(authors)
	return authors
}

// ParseComments decodes the wire form of the comment map. Empty or
// unparseable input yields an empty map; a broken comment blob must
// never take the whole record down.
func ParseComments(raw string) (map[string]string, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]string{}, nil
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return map[string]string{}, fmt.Errorf("parse comments: %w", err)
	}
	if out == nil {
		out = map[string]string{}
	}
	return out, nil
}

// EncodeComments produces the wire form of the comment map.
func EncodeComments(comments map[string]string) string {
	if comments == nil {
		comments = map[string]string{}
	}
	raw, err := json.Marshal(comments)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// conditionPrefix is the literal label the backend stores in front of
// the comma-joined condition list.
const conditionPrefix = "Medical Conditions:"

// ParseConditions splits the stored condition string into its items,
// trimming whitespace and dropping empty tokens.
func ParseConditions(stored string) []string {
	body := strings.TrimSpace(stored)
	if rest, ok := strings.CutPrefix(body, conditionPrefix); ok {
		body = rest
	}
	items := []string{}
	for _, part := range strings.Split(body, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// CleanConditions trims every item, drops empties and removes
// duplicates, keeping the order of first occurrence.
func CleanConditions(items []string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// RenderConditions produces the stored form of a condition list. An
// empty list is legal and renders as the bare prefix.
func RenderConditions(items []string) string {
	return strings.TrimSpace(conditionPrefix + " " + strings.Join(items, ", "))
}

// attributeListKeys are the attribute-sheet keys edited as comma-joined
// line-item lists rather than freeform text.
var attributeListKeys = []string{
	"current_symptoms",
	"current_medications",
	"patient_risk_factors",
}

// IsAttributeListKey reports whether a key gets line-item editing.
func IsAttributeListKey(key string) bool {
	for _, k := range attributeListKeys {
		if k == key {
			return true
		}
	}
	return false
}

// ParseAttributes decodes a field value holding a JSON object into a
// flat string map. Non-string values are stringified; anything
// unparseable comes back as an empty sheet with the error for logging.
func ParseAttributes(raw string) (map[string]string, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]string{}, nil
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return map[string]string{}, fmt.Errorf("parse attributes: %w", err)
	}
	out := make(map[string]string, len(decoded))
	for key, value := range decoded {
		switch v := value.(type) {
		case string:
			out[key] = v
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(v)
		}
	}
	return out, nil
}

// EncodeAttributes produces the stored (indented JSON) form of an
// attribute sheet.
func EncodeAttributes(attrs map[string]string) (string, error) {
	if attrs == nil {
		attrs = map[string]string{}
	}
	raw, err := json.MarshalIndent(attrs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode attributes: %w", err)
	}
	return string(raw), nil
}

// LooksLikeAttributes reports whether a field value should be presented
// as a structured attribute sheet instead of free text.
func LooksLikeAttributes(value string) bool {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, "{") {
		return false
	}
	_, err := ParseAttributes(trimmed)
	return err == nil
}

// FormatAttributeKey turns snake_case keys into display headings, e.g.
// "current_symptoms" becomes "Current Symptoms".
func FormatAttributeKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		lower := strings.ToLower(part)
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}
