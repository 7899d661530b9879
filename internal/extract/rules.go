package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/gomag-tools/importer/internal/urlutil"
)

// RuleSet is the declarative selector configuration for one supplier domain.
type RuleSet struct {
	TitleCSS       string `yaml:"title_css"`
	DescriptionCSS string `yaml:"description_css"`
	SKUCSS         string `yaml:"sku_css"`
	PriceCSS       string `yaml:"price_css"`
	ImageCSS       string `yaml:"image_css"`
	ImageAttr      string `yaml:"image_attr"`
	// SpecRowsCSS selects key/value rows (e.g. "table.specs tr"); the first
	// two cells of each row become a spec entry.
	SpecRowsCSS string `yaml:"spec_rows_css"`
}

// RuleLoader reads rule files from a directory, keyed by normalized domain
// (no "www."), with a default.yaml fallback. Results are cached per loader.
type RuleLoader struct {
	dir   string
	mu    sync.Mutex
	cache map[string]*RuleSet
}

// NewRuleLoader creates a loader rooted at dir.
func NewRuleLoader(dir string) *RuleLoader {
	return &RuleLoader{dir: dir, cache: make(map[string]*RuleSet)}
}

// Load returns the rule set for a domain, the default rule set when the
// domain has none, or nil when neither file exists.
func (l *RuleLoader) Load(domain string) *RuleSet {
	domain = urlutil.NormalizeDomain(domain)

	l.mu.Lock()
	defer l.mu.Unlock()

	if rs, ok := l.cache[domain]; ok {
		return rs
	}

	rs := l.read(domain + ".yaml")
	if rs == nil {
		rs = l.read("default.yaml")
	}
	l.cache[domain] = rs
	return rs
}

func (l *RuleLoader) read(name string) *RuleSet {
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		return nil
	}
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		log.Warn().Err(err).Str("file", name).Msg("Ignoring malformed rule file")
		return nil
	}
	return &rs
}

// RuleBased applies per-domain declarative selectors.
type RuleBased struct {
	loader *RuleLoader
}

// NewRuleBased creates the rule-based extractor.
func NewRuleBased(loader *RuleLoader) *RuleBased {
	return &RuleBased{loader: loader}
}

// Name implements Extractor.
func (r *RuleBased) Name() string { return "rules" }

// Extract implements Extractor. Fields whose selectors match nothing stay
// empty; a domain without rules yields an empty record.
func (r *RuleBased) Extract(pageURL string, doc *goquery.Document) PartialRecord {
	var rec PartialRecord

	rules := r.loader.Load(urlutil.Domain(pageURL))
	if rules == nil {
		return rec
	}

	rec.Title = selectText(doc, rules.TitleCSS)
	rec.SKU = selectText(doc, rules.SKUCSS)

	if rules.DescriptionCSS != "" {
		if sel := doc.Find(rules.DescriptionCSS).First(); sel.Length() > 0 {
			if html, err := sel.Html(); err == nil {
				rec.Description = strings.TrimSpace(html)
			}
		}
	}

	if priceText := selectText(doc, rules.PriceCSS); priceText != "" {
		rec.Price, rec.Currency = ParsePriceText(priceText)
	}

	if rules.ImageCSS != "" && rules.ImageAttr != "" {
		var images []string
		doc.Find(rules.ImageCSS).Each(func(_ int, sel *goquery.Selection) {
			if v, ok := sel.Attr(rules.ImageAttr); ok && strings.TrimSpace(v) != "" {
				images = append(images, urlutil.Resolve(pageURL, v))
			}
		})
		rec.Images = dedupeStrings(images)
	}

	if rules.SpecRowsCSS != "" {
		rec.Specs = selectSpecRows(doc, rules.SpecRowsCSS)
	}

	return rec
}

func selectText(doc *goquery.Document, selector string) string {
	if selector == "" {
		return ""
	}
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	return normalizeSpace(sel.Text())
}

func selectSpecRows(doc *goquery.Document, selector string) map[string]string {
	specs := make(map[string]string)
	doc.Find(selector).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}
		key := normalizeSpace(cells.Eq(0).Text())
		value := normalizeSpace(cells.Eq(1).Text())
		if key != "" && value != "" {
			specs[key] = value
		}
	})
	if len(specs) == 0 {
		return nil
	}
	return specs
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Validate checks every rule file in a directory parses; used by the CLI to
// catch broken YAML before a long batch run.
func ValidateRulesDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("cannot read rules dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		var rs RuleSet
		if err := yaml.Unmarshal(data, &rs); err != nil {
			return fmt.Errorf("rule file %s: %w", e.Name(), err)
		}
	}
	return nil
}
