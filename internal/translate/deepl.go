package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultDeepLEndpoint is the free-tier API endpoint. Pro keys use
// api.deepl.com instead.
const DefaultDeepLEndpoint = "https://api-free.deepl.com/v2/translate"

// DeepL is the primary translation provider.
type DeepL struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewDeepL creates a DeepL provider. An empty endpoint selects the free-tier
// API.
func NewDeepL(apiKey, endpoint string) *DeepL {
	if endpoint == "" {
		endpoint = DefaultDeepLEndpoint
	}
	return &DeepL{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Name implements Provider.
func (d *DeepL) Name() string { return "deepl" }

// Translate implements Provider.
func (d *DeepL) Translate(ctx context.Context, text string) (string, error) {
	form := url.Values{
		"auth_key":    {d.apiKey},
		"text":        {text},
		"target_lang": {"RO"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepl request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepl: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("deepl response: %w", err)
	}
	if len(body.Translations) == 0 {
		return "", fmt.Errorf("deepl: empty translations array")
	}
	return body.Translations[0].Text, nil
}
