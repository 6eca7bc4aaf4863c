package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetGuidelineDecodesWireShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/api/get_guideline/g-42" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"guideline_id": "g-42",
			"guideline_name": "Asthma management",
			"guideline_data": {
				"guideline_text": "Adults presenting with...",
				"guideline_medical_condition": "Medical Conditions: asthma",
				"guideline_criteria": "# Criteria",
				"guideline_pdf": "https://example.com/a.pdf",
				"guideline_comments": "{}",
				"guideline_text_verified": true,
				"guideline_text_lgtm": false,
				"guideline_medical_condition_verified": false,
				"guideline_medical_condition_lgtm": false,
				"guideline_criteria_verified": true,
				"guideline_criteria_lgtm": true
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	g, err := client.GetGuideline(context.Background(), "g-42")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if g.GuidelineID != "g-42" || g.GuidelineName != "Asthma management" {
		t.Fatalf("identity mangled: %+v", g)
	}
	if !g.GuidelineData.GuidelineTextVerified || g.GuidelineData.GuidelineTextLGTM {
		t.Fatalf("flags mangled: %+v", g.GuidelineData)
	}
	if !g.GuidelineData.GuidelineCriteriaLGTM {
		t.Fatalf("criteria lgtm lost: %+v", g.GuidelineData)
	}
}

func TestGetGuidelineNon2xxIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	if _, err := client.GetGuideline(context.Background(), "missing"); err == nil {
		t.Fatalf("expected an error for 404")
	}
}

func TestPushGuidelineDataSendsExactKeys(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/api/push_guideline_data/g-42" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	err := client.PushGuidelineData(context.Background(), "g-42", PushRequest{
		GuidelineName:         "Asthma management",
		GuidelineText:         "text",
		GuidelineTextVerified: 1,
		GuidelineTextLGTM:     0,
		UpdatedBy:             "a@x.com",
	})
	if err != nil {
		t.Fatalf("push failed: %v", err)
	}

	for _, key := range []string{
		"guideline_name", "guideline_text", "guideline_medical_condition",
		"guideline_criteria", "guideline_pdf", "guideline_comments",
		"guideline_text_verified", "guideline_medical_condition_verified",
		"guideline_criteria_verified", "guideline_text_lgtm",
		"guideline_medical_condition_lgtm", "guideline_criteria_lgtm",
		"updated_by",
	} {
		if _, ok := got[key]; !ok {
			t.Fatalf("payload missing key %q: %v", key, got)
		}
	}
	// Flags travel as numbers, not booleans.
	if v, ok := got["guideline_text_verified"].(float64); !ok || v != 1 {
		t.Fatalf("verified flag must be numeric 1, got %v", got["guideline_text_verified"])
	}
}

func TestPushGuidelineDataNon2xxIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "broken", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	if err := client.PushGuidelineData(context.Background(), "g-42", PushRequest{}); err == nil {
		t.Fatalf("expected an error for 500")
	}
}
