package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultOpenAIEndpoint is the Responses API endpoint.
	DefaultOpenAIEndpoint = "https://api.openai.com/v1/responses"
	// DefaultOpenAIModel balances cost against quality for short commerce
	// copy.
	DefaultOpenAIModel = "gpt-4o-mini"

	openAISystemPrompt = "Tradu în limba română. Păstrează brandurile și codurile neschimbate. Nu inventa specificații."
)

// OpenAI is the secondary translation provider, called over plain HTTP.
type OpenAI struct {
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
}

// NewOpenAI creates an OpenAI provider. Empty endpoint and model select the
// defaults.
func NewOpenAI(apiKey, endpoint, model string) *OpenAI {
	if endpoint == "" {
		endpoint = DefaultOpenAIEndpoint
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{
		apiKey:   apiKey,
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{Timeout: 90 * time.Second},
	}
}

// Name implements Provider.
func (o *OpenAI) Name() string { return "openai" }

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Translate implements Provider.
func (o *OpenAI) Translate(ctx context.Context, text string) (string, error) {
	payload := struct {
		Model       string          `json:"model"`
		Input       []openAIMessage `json:"input"`
		Temperature float64         `json:"temperature"`
	}{
		Model: o.model,
		Input: []openAIMessage{
			{Role: "system", Content: openAISystemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0.2,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Output []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("openai response: %w", err)
	}

	var sb strings.Builder
	for _, item := range body.Output {
		for _, c := range item.Content {
			if c.Type == "output_text" {
				sb.WriteString(c.Text)
			}
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return text, nil
	}
	return out, nil
}
