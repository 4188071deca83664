package litquiz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// GenerateQuizRequest is the body of POST /generate-quiz
type GenerateQuizRequest struct {
	ChapterID     string `json:"chapter_id"`
	Credential    string `json:"credential,omitempty"`
	APIKey        string `json:"api_key,omitempty"` // accepted for older clients
	QuestionCount int    `json:"question_count,omitempty"`
}

// Key returns the credential, preferring the credential field
func (r GenerateQuizRequest) Key() string {
	if r.Credential != "" {
		return r.Credential
	}
	return r.APIKey
}

// GenerateQuizResponse is the body returned by POST /generate-quiz. The HTTP
// status is always 200; Success carries the outcome.
type GenerateQuizResponse struct {
	Success bool   `json:"success"`
	Quiz    *Quiz  `json:"quiz,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrGenerationFailed is returned by Client when the server reports failure
var ErrGenerationFailed = errors.New(GenerationFailedMessage)

// Client calls a litquiz server
type Client struct {
	baseURL          string
	httpClient       *http.Client
	credentialPrefix string
}

// NewClient creates a client for the server at baseURL. Credentials that do
// not start with credentialPrefix are rejected before any request is sent.
func NewClient(baseURL, credentialPrefix string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:          strings.TrimSuffix(baseURL, "/"),
		httpClient:       httpClient,
		credentialPrefix: credentialPrefix,
	}
}

// GenerateQuiz asks the server for a quiz
func (c *Client) GenerateQuiz(ctx context.Context, req QuizRequest) (*Quiz, error) {
	if strings.TrimSpace(req.ChapterID) == "" {
		return nil, ErrMissingChapterID
	}
	if err := ValidateCredential(req.Credential, c.credentialPrefix); err != nil {
		return nil, err
	}

	body, err := json.Marshal(GenerateQuizRequest{
		ChapterID:     req.ChapterID,
		Credential:    strings.TrimSpace(req.Credential),
		QuestionCount: req.QuestionCount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate-quiz", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status from server: %s", resp.Status)
	}

	var out GenerateQuizResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !out.Success || out.Quiz == nil || len(out.Quiz.Questions) == 0 {
		if out.Error != "" && out.Error != GenerationFailedMessage {
			return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, out.Error)
		}
		return nil, ErrGenerationFailed
	}
	if err := out.Quiz.Validate(); err != nil {
		return nil, fmt.Errorf("server returned an invalid quiz: %w", err)
	}
	return out.Quiz, nil
}

// Chapters fetches the catalog from the server
func (c *Client) Chapters(ctx context.Context) ([]Collection, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/chapters", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status from server: %s", resp.Status)
	}
	var out struct {
		Collections []Collection `json:"collections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return out.Collections, nil
}
