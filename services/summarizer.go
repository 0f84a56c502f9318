package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/Kelvin-Amaju/keyclip-lite/utils"
)

const geminiAPI = "https://generativelanguage.googleapis.com/v1beta/models"

const summaryPrompt = "Summarize the following content in 4-5 sentences, providing key details and main ideas:\n\n"

// GeminiSummarizer generates note summaries via the Gemini API
type GeminiSummarizer struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiSummarizer() (*GeminiSummarizer, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	return &GeminiSummarizer{
		apiKey:  apiKey,
		model:   utils.GetEnvAsString("GEMINI_MODEL", "gemini-2.0-flash"),
		baseURL: geminiAPI,
		client:  &http.Client{},
	}, nil
}

type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Summarize asks the provider for a short summary of content. The caller
// bounds the call through ctx.
func (s *GeminiSummarizer) Summarize(ctx context.Context, content string) (string, error) {
	reqBody := generateRequest{
		Contents: []requestContent{
			{Parts: []requestPart{{Text: summaryPrompt + content}}},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read provider response: %w", err)
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("malformed provider response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("provider error %d: %s", result.Error.Code, result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("provider response contains no candidates")
	}

	summary := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	if summary == "" {
		return "", fmt.Errorf("provider returned an empty summary")
	}
	return summary, nil
}
