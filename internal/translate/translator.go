// Package translate turns scraped product text into Romanian through a chain
// of providers, falling back to the original text when every provider fails.
package translate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Provider translates one piece of text into Romanian.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text string) (string, error)
}

// Cache memoizes translations for the lifetime of one pipeline run. Repeated
// tokens (spec keys, shared phrases) hit the providers only once. Callers
// create one per run; it is never shared across runs.
type Cache struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewCache creates an empty run cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

func (c *Cache) get(text string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[text]
	return v, ok
}

func (c *Cache) put(text, translated string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[text] = translated
}

// Numeric and unit tokens that translation services tend to mangle. They are
// masked before the call and restored verbatim after.
var unitTokenRe = regexp.MustCompile(`\d+(?:[.,]\d+)?\s*(?:cm|mm|m|kg|g|L|ml|inch|"|'|x|X|×)`)

func maskUnits(text string) (string, map[string]string) {
	placeholders := make(map[string]string)
	masked := unitTokenRe.ReplaceAllStringFunc(text, func(token string) string {
		key := fmt.Sprintf("__PH%d__", len(placeholders))
		placeholders[key] = token
		return key
	})
	return masked, placeholders
}

func restoreUnits(text string, placeholders map[string]string) string {
	for key, token := range placeholders {
		text = strings.ReplaceAll(text, key, token)
	}
	return text
}

// Translator runs the provider chain with unit masking and run caching.
type Translator struct {
	providers []Provider
	cache     *Cache
}

// New creates a translator over the given providers, tried in order. A nil
// cache disables memoization.
func New(cache *Cache, providers ...Provider) *Translator {
	return &Translator{providers: providers, cache: cache}
}

// Translate returns the Romanian rendition of text, or text itself when it is
// empty or every provider fails.
func (t *Translator) Translate(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	if t.cache != nil {
		if v, ok := t.cache.get(text); ok {
			return v
		}
	}

	masked, placeholders := maskUnits(text)
	for _, p := range t.providers {
		out, err := p.Translate(ctx, masked)
		if err != nil {
			log.Warn().Err(err).Str("provider", p.Name()).Msg("Translation provider failed")
			continue
		}
		result := restoreUnits(out, placeholders)
		if t.cache != nil {
			t.cache.put(text, result)
		}
		return result
	}

	return text
}

// TranslateSpecs translates both keys and values of a spec table. Values that
// are purely numeric or dimensional are kept as-is.
func (t *Translator) TranslateSpecs(ctx context.Context, specs map[string]string) map[string]string {
	if len(specs) == 0 {
		return specs
	}
	out := make(map[string]string, len(specs))
	for k, v := range specs {
		key := t.Translate(ctx, k)
		if numericValueRe.MatchString(v) {
			out[key] = v
			continue
		}
		out[key] = t.Translate(ctx, v)
	}
	return out
}

var numericValueRe = regexp.MustCompile(`^[\d.,\s\-xX×]+\s*(?:cm|mm|m|kg|g|L|ml)?$`)
