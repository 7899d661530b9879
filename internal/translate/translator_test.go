package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name  string
	calls int
	fn    func(text string) (string, error)
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Translate(_ context.Context, text string) (string, error) {
	s.calls++
	return s.fn(text)
}

func upperProvider(name string) *stubProvider {
	return &stubProvider{name: name, fn: func(text string) (string, error) {
		return strings.ToUpper(text), nil
	}}
}

func failingProvider(name string) *stubProvider {
	return &stubProvider{name: name, fn: func(string) (string, error) {
		return "", errors.New("quota exceeded")
	}}
}

func TestMaskUnits(t *testing.T) {
	masked, placeholders := maskUnits("Laptop sleeve 30 cm wide, 1.5 kg")
	assert.NotContains(t, masked, "30 cm")
	assert.NotContains(t, masked, "1.5 kg")
	assert.Len(t, placeholders, 2)

	restored := restoreUnits(masked, placeholders)
	assert.Equal(t, "Laptop sleeve 30 cm wide, 1.5 kg", restored)
}

func TestTranslate_UnitTokensSurviveProvider(t *testing.T) {
	// A provider that mangles everything it sees, placeholders excepted.
	mangler := &stubProvider{name: "mangler", fn: func(text string) (string, error) {
		out := text
		for _, word := range strings.Fields(text) {
			if !strings.HasPrefix(word, "__PH") {
				out = strings.ReplaceAll(out, word, "tradus")
			}
		}
		return out, nil
	}}

	got := New(NewCache(), mangler).Translate(context.Background(), "wide 30 cm sleeve")
	assert.Contains(t, got, "30 cm")
}

func TestTranslate_CacheAvoidsRepeatCalls(t *testing.T) {
	p := upperProvider("p")
	tr := New(NewCache(), p)

	ctx := context.Background()
	assert.Equal(t, "MATERIAL", tr.Translate(ctx, "material"))
	assert.Equal(t, "MATERIAL", tr.Translate(ctx, "material"))
	assert.Equal(t, 1, p.calls)
}

func TestTranslate_ChainFallback(t *testing.T) {
	primary := failingProvider("primary")
	secondary := upperProvider("secondary")

	got := New(NewCache(), primary, secondary).Translate(context.Background(), "backpack")

	assert.Equal(t, "BACKPACK", got)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestTranslate_PassthroughWhenAllFail(t *testing.T) {
	got := New(NewCache(), failingProvider("a"), failingProvider("b")).
		Translate(context.Background(), "backpack")
	assert.Equal(t, "backpack", got)
}

func TestTranslate_EmptyText(t *testing.T) {
	p := upperProvider("p")
	got := New(nil, p).Translate(context.Background(), "   ")
	assert.Equal(t, "   ", got)
	assert.Zero(t, p.calls)
}

func TestTranslateSpecs(t *testing.T) {
	tr := New(NewCache(), upperProvider("p"))

	got := tr.TranslateSpecs(context.Background(), map[string]string{
		"material":   "recycled polyester",
		"dimensions": "30 x 20 x 10 cm",
	})

	assert.Equal(t, map[string]string{
		"MATERIAL": "RECYCLED POLYESTER",
		// Purely dimensional values pass through untranslated.
		"DIMENSIONS": "30 x 20 x 10 cm",
	}, got)
}

func TestDeepLProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "RO", r.FormValue("target_lang"))
		assert.Equal(t, "secret", r.FormValue("auth_key"))
		assert.Equal(t, "hello", r.FormValue("text"))

		json.NewEncoder(w).Encode(map[string]any{
			"translations": []map[string]string{{"text": "salut"}},
		})
	}))
	defer srv.Close()

	got, err := NewDeepL("secret", srv.URL).Translate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "salut", got)
}

func TestDeepLProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewDeepL("bad", srv.URL).Translate(context.Background(), "hello")
	assert.Error(t, err)
}

func TestOpenAIProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var payload struct {
			Model string          `json:"model"`
			Input []openAIMessage `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Input, 2)
		assert.Equal(t, "system", payload.Input[0].Role)
		assert.Equal(t, "hello", payload.Input[1].Content)

		json.NewEncoder(w).Encode(map[string]any{
			"output": []map[string]any{{
				"content": []map[string]string{
					{"type": "output_text", "text": "salut"},
					{"type": "reasoning", "text": "ignored"},
				},
			}},
		})
	}))
	defer srv.Close()

	got, err := NewOpenAI("secret", srv.URL, "").Translate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "salut", got)
}

func TestOpenAIProvider_EmptyOutputFallsBackToInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"output": []any{}})
	}))
	defer srv.Close()

	got, err := NewOpenAI("secret", srv.URL, "").Translate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}
