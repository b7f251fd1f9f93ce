package llm

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// DefaultGeminiBaseURL is the public Gemini REST endpoint for model calls.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiRequest is the body of a generateContent call.
type GeminiRequest struct {
	SystemInstruction *GeminiContent          `json:"systemInstruction,omitempty"`
	Contents          []GeminiContent         `json:"contents"`
	GenerationConfig  *GeminiGenerationConfig `json:"generationConfig,omitempty"`
}

type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

type GeminiPart struct {
	Text string `json:"text"`
}

type GeminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

// GeminiResponse is the subset of a generateContent response that is read.
type GeminiResponse struct {
	Candidates    []GeminiCandidate    `json:"candidates"`
	UsageMetadata *GeminiUsageMetadata `json:"usageMetadata,omitempty"`
	ModelVersion  string               `json:"modelVersion,omitempty"`
	Error         *GeminiError         `json:"error,omitempty"`
}

type GeminiCandidate struct {
	Content      *GeminiContent `json:"content"`
	FinishReason string         `json:"finishReason"`
}

type GeminiUsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type GeminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewGeminiRequest builds a single-turn request with a system instruction.
func NewGeminiRequest(system, user string) GeminiRequest {
	req := GeminiRequest{
		Contents: []GeminiContent{{
			Parts: []GeminiPart{{Text: user}},
		}},
	}
	if system != "" {
		req.SystemInstruction = &GeminiContent{
			Parts: []GeminiPart{{Text: system}},
		}
	}
	return req
}

// GenerateContentURL returns {base}/{model}:generateContent?key={apiKey}.
func GenerateContentURL(baseURL, model, apiKey string) (string, error) {
	if model == "" {
		return "", fmt.Errorf("model is required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/" + model + ":generateContent")
	if err != nil {
		return "", fmt.Errorf("invalid gemini base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid gemini base url %q: missing scheme or host", baseURL)
	}
	if apiKey != "" {
		q := u.Query()
		q.Set("key", apiKey)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// DecodeGeminiResponse reads a generateContent response body.
func DecodeGeminiResponse(r io.Reader) (*GeminiResponse, error) {
	var resp GeminiResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gemini response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("gemini API error (%s): %s", resp.Error.Status, resp.Error.Message)
	}
	return &resp, nil
}

// Text returns candidates[0].content.parts[0].text, or "" when any step of
// that path is missing.
func (r *GeminiResponse) Text() string {
	if r == nil || len(r.Candidates) == 0 {
		return ""
	}
	c := r.Candidates[0].Content
	if c == nil || len(c.Parts) == 0 {
		return ""
	}
	return c.Parts[0].Text
}

// Usage returns prompt and candidate token counts, zero when absent.
func (r *GeminiResponse) Usage() (input, output int) {
	if r == nil || r.UsageMetadata == nil {
		return 0, 0
	}
	return r.UsageMetadata.PromptTokenCount, r.UsageMetadata.CandidatesTokenCount
}
