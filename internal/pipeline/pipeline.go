// Package pipeline orchestrates one batch run: URLs in, product drafts out.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/gomag-tools/importer/internal/config"
	"github.com/gomag-tools/importer/internal/extract"
	"github.com/gomag-tools/importer/internal/fetch"
	"github.com/gomag-tools/importer/internal/pricing"
	"github.com/gomag-tools/importer/internal/translate"
	"github.com/gomag-tools/importer/internal/urlutil"
	"github.com/gomag-tools/importer/pkg/models"
)

// ShortDescriptionMaxLen bounds the derived short description.
const ShortDescriptionMaxLen = 160

// Failure records one URL that could not be processed. Failures never abort
// the rest of the batch.
type Failure struct {
	URL string
	Err error
}

// Result is the outcome of one batch run.
type Result struct {
	Drafts   []models.ProductDraft
	Failures []Failure
}

// Pipeline wires the fetcher, the extractor tiers and the normalization
// steps. Batches run strictly sequentially; the inter-request delay plus the
// fetcher's per-domain limiter keep source sites calm.
type Pipeline struct {
	fetcher      *fetch.Fetcher
	ruleLoader   *extract.RuleLoader
	translator   *translate.Translator
	requestDelay time.Duration
	progress     bool
}

// New builds a pipeline from the application config. translator may be nil,
// in which case drafts are flagged as still needing translation.
func New(cfg *config.Config, translator *translate.Translator) *Pipeline {
	return &Pipeline{
		fetcher:      fetch.New(cfg),
		ruleLoader:   extract.NewRuleLoader(cfg.RulesDir),
		translator:   translator,
		requestDelay: cfg.RequestDelay,
		progress:     true,
	}
}

// SetProgress toggles the terminal progress bar. Off in tests and JSON mode.
func (p *Pipeline) SetProgress(enabled bool) { p.progress = enabled }

// Run processes the URLs one at a time and returns every draft it could
// produce plus the per-URL failures.
func (p *Pipeline) Run(ctx context.Context, urls []string, settings models.ImportSettings) *Result {
	result := &Result{}

	var bar *progressbar.ProgressBar
	if p.progress {
		bar = progressbar.Default(int64(len(urls)), "scraping")
	}

	for i, rawURL := range urls {
		if err := ctx.Err(); err != nil {
			result.Failures = append(result.Failures, Failure{URL: rawURL, Err: err})
			continue
		}
		if i > 0 && p.requestDelay > 0 {
			select {
			case <-time.After(p.requestDelay):
			case <-ctx.Done():
				result.Failures = append(result.Failures, Failure{URL: rawURL, Err: ctx.Err()})
				continue
			}
		}

		draft, err := p.processURL(ctx, rawURL, settings)
		if err != nil {
			log.Warn().Err(err).Str("url", rawURL).Msg("Skipping URL")
			result.Failures = append(result.Failures, Failure{URL: rawURL, Err: err})
		} else {
			result.Drafts = append(result.Drafts, *draft)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	return result
}

func (p *Pipeline) processURL(ctx context.Context, rawURL string, settings models.ImportSettings) (*models.ProductDraft, error) {
	if err := urlutil.Validate(rawURL); err != nil {
		return nil, err
	}

	fetched, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fetched.HTML))
	if err != nil {
		return nil, err
	}

	draft := extract.Merge(rawURL, doc, []extract.Extractor{
		extract.NewStructuredData(),
		extract.NewRuleBased(p.ruleLoader),
		extract.NewHeuristic(),
	})
	draft.Notes = strings.TrimSpace(draft.Notes + " fetch=" + string(fetched.Method))

	pricing.Apply(&draft, settings)

	if p.translator != nil {
		draft.Title = p.translator.Translate(ctx, draft.Title)
		draft.DescriptionHTML = p.translator.Translate(ctx, draft.DescriptionHTML)
		draft.Specs = p.translator.TranslateSpecs(ctx, draft.Specs)
	} else {
		draft.NeedsTranslation = true
	}

	draft.ShortDescription = extract.Summarize(draft.DescriptionHTML, ShortDescriptionMaxLen)

	log.Debug().
		Str("url", rawURL).
		Str("sku", draft.SKU).
		Str("method", string(fetched.Method)).
		Msg("Draft produced")
	return &draft, nil
}
