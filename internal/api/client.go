// internal/api/client.go
//
// Thin client for the guideline document store. Two endpoints, both
// JSON: one read, one write. Any non-2xx response is treated uniformly
// as failure; there is no status-code-specific handling on purpose.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Guideline is the fetch response shape.
type Guideline struct {
	GuidelineID   string        `json:"guideline_id"`
	GuidelineName string        `json:"guideline_name"`
	GuidelineData GuidelineData `json:"guideline_data"`
}

// GuidelineData carries the three reviewable sections, their
// verification flags, the PDF reference and the JSON-encoded comment
// blob.
type GuidelineData struct {
	GuidelineText             string `json:"guideline_text"`
	GuidelineMedicalCondition string `json:"guideline_medical_condition"`
	GuidelineCriteria         string `json:"guideline_criteria"`
	GuidelinePDF              string `json:"guideline_pdf"`
	GuidelineComments         string `json:"guideline_comments"`

	GuidelineTextVerified             bool `json:"guideline_text_verified"`
	GuidelineMedicalConditionVerified bool `json:"guideline_medical_condition_verified"`
	GuidelineCriteriaVerified         bool `json:"guideline_criteria_verified"`
	GuidelineTextLGTM                 bool `json:"guideline_text_lgtm"`
	GuidelineMedicalConditionLGTM     bool `json:"guideline_medical_condition_lgtm"`
	GuidelineCriteriaLGTM             bool `json:"guideline_criteria_lgtm"`
}

// PushRequest is the persistence payload. The backend wants the
// verification flags coerced to 0/1, not JSON booleans.
type PushRequest struct {
	GuidelineName             string `json:"guideline_name"`
	GuidelineText             string `json:"guideline_text"`
	GuidelineMedicalCondition string `json:"guideline_medical_condition"`
	GuidelineCriteria         string `json:"guideline_criteria"`
	GuidelinePDF              string `json:"guideline_pdf"`
	GuidelineComments         string `json:"guideline_comments"`

	GuidelineTextVerified             int `json:"guideline_text_verified"`
	GuidelineMedicalConditionVerified int `json:"guideline_medical_condition_verified"`
	GuidelineCriteriaVerified         int `json:"guideline_criteria_verified"`
	GuidelineTextLGTM                 int `json:"guideline_text_lgtm"`
	GuidelineMedicalConditionLGTM     int `json:"guideline_medical_condition_lgtm"`
	GuidelineCriteriaLGTM             int `json:"guideline_criteria_lgtm"`

	UpdatedBy string `json:"updated_by"`
}

// Client talks to the document store.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the given base URL. Pass nil to use a
// default HTTP client with a sane timeout.
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// GetGuideline fetches one guideline record by id.
func (c *Client) GetGuideline(ctx context.Context, guidelineID string) (Guideline, error) {
	endpoint := fmt.Sprintf("%s/api/get_guideline/%s", c.baseURL, url.PathEscape(guidelineID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Guideline{}, fmt.Errorf("api: build get request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Guideline{}, fmt.Errorf("api: get guideline %s: %w", guidelineID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Guideline{}, fmt.Errorf("api: get guideline %s: status %d", guidelineID, resp.StatusCode)
	}
	var out Guideline
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Guideline{}, fmt.Errorf("api: decode guideline %s: %w", guidelineID, err)
	}
	return out, nil
}

// PushGuidelineData persists the full record state for a guideline.
func (c *Client) PushGuidelineData(ctx context.Context, guidelineID string, body PushRequest) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("api: encode push payload: %w", err)
	}
	endpoint := fmt.Sprintf("%s/api/push_guideline_data/%s", c.baseURL, url.PathEscape(guidelineID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("api: build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("api: push guideline %s: %w", guidelineID, err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("api: push guideline %s: status %d", guidelineID, resp.StatusCode)
	}
	return nil
}
