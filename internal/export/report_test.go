package export

import (
	"strings"
	"testing"

	"github.com/yourusername/guidelens/internal/review"
)

func sampleRecord() review.Record {
	return review.Record{
		ID:               "g-42",
		Name:             "Asthma management",
		Text:             "Adults presenting with wheeze...",
		MedicalCondition: "Medical Conditions: asthma, copd",
		Criteria:         "# Inclusion\n\n- FEV1 below 80%",
		PDFURL:           "https://example.com/asthma.pdf",
		Comments: map[string]string{
			"b@x.com": "needs a second pass",
			"a@x.com": "looks fine",
		},
		TextState:     review.VerificationState{Verified: true, Agree: true},
		CriteriaState: review.VerificationState{Verified: true, Agree: false},
	}
}

func TestReportCarriesStatusesAndMarkdown(t *testing.T) {
	out, err := Report(sampleRecord())
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, "Asthma management") {
		t.Fatalf("guideline name missing")
	}
	if !strings.Contains(html, "Verified-LGTM") || !strings.Contains(html, "Verified-DLGTM") || !strings.Contains(html, "Unverified") {
		t.Fatalf("status labels missing: %s", html)
	}
	// Criteria markdown must arrive converted, not escaped.
	if !strings.Contains(html, "<h1>Inclusion</h1>") {
		t.Fatalf("criteria markdown not converted")
	}
	if !strings.Contains(html, "<li>FEV1 below 80%") {
		t.Fatalf("criteria list not converted")
	}
	if !strings.Contains(html, "https://example.com/asthma.pdf") {
		t.Fatalf("pdf reference missing")
	}
}

func TestReportOrdersCommentsByAuthor(t *testing.T) {
	out, err := Report(sampleRecord())
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	html := string(out)
	first := strings.Index(html, "a@x.com")
	second := strings.Index(html, "b@x.com")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("comments not in stable author order")
	}
}

func TestReportWithEmptyRecord(t *testing.T) {
	out, err := Report(review.Record{ID: "g-0", Name: "Empty"})
	if err != nil {
		t.Fatalf("report failed on empty record: %v", err)
	}
	if !strings.Contains(string(out), "No comments.") {
		t.Fatalf("empty comment list not rendered")
	}
}
