package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aluiziolira/go-scrape-shop/config"
	"github.com/aluiziolira/go-scrape-shop/models"
	"github.com/aluiziolira/go-scrape-shop/pipeline"
	lru "github.com/hashicorp/golang-lru/v2"
)

// session is the shared browser handle the runner scopes its work to.
type session interface {
	Acquire(ctx context.Context) (context.Context, error)
	Release()
}

// pageLoader materializes one listing page into markup.
type pageLoader interface {
	Materialize(ctx context.Context, url string) (string, int, error)
}

// Runner drives the whole scrape: one sequential pass over the configured
// targets against a single shared browser session.
type Runner struct {
	cfg       *config.Config
	sess      session
	pages     pageLoader
	export    func(path string, products []*models.Product) error
	preflight func(ctx context.Context) error
	Metrics   *Metrics

	// cache keeps materialized markup per URL so duplicate targets in a
	// user-supplied targets file are fetched once.
	cache *lru.Cache[string, string]
}

// NewRunner wires a runner from configuration.
func NewRunner(cfg *config.Config) (*Runner, error) {
	metrics := NewMetrics()
	cache, err := lru.New[string, string](cfg.PageCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}

	client := NewPreflightClient(cfg.UserAgent, 10*time.Second)
	return &Runner{
		cfg:     cfg,
		sess:    NewBrowser(cfg.Headless, cfg.UserAgent),
		pages:   NewMaterializer(cfg.SettleDelay, cfg.ReappearTimeout, metrics),
		export:  pipeline.Export,
		preflight: func(ctx context.Context) error {
			return Preflight(ctx, client, cfg.BaseURL)
		},
		Metrics: metrics,
		cache:   cache,
	}, nil
}

// Run processes every target in order. The session is acquired lazily,
// stays alive across targets, and is released exactly once on all paths.
// The first fatal error aborts the run; files already written stay.
func (r *Runner) Run(ctx context.Context) (*models.RunResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	result := &models.RunResult{
		StartTime:       time.Now(),
		TargetCount:     len(r.cfg.Targets),
		ProductsPerFile: make(map[string]int, len(r.cfg.Targets)),
	}

	defer r.sess.Release()

	if r.preflight != nil {
		if err := r.preflight(ctx); err != nil {
			r.Metrics.IncError(errorTypeLabel(err))
			return nil, fmt.Errorf("preflight %s: %w", r.cfg.BaseURL, err)
		}
	}

	for _, target := range r.cfg.Targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.scrapeTarget(ctx, target, result); err != nil {
			r.Metrics.IncError(errorTypeLabel(err))
			return nil, fmt.Errorf("target %s: %w", target.Name, err)
		}
	}

	result.EndTime = time.Now()
	return result, nil
}

func (r *Runner) scrapeTarget(ctx context.Context, target models.Target, result *models.RunResult) error {
	browserCtx, err := r.sess.Acquire(ctx)
	if err != nil {
		return err
	}

	html, ok := r.cache.Get(target.URL)
	if ok {
		slog.Debug("page cache hit", slog.String("url", target.URL))
	} else {
		var expansions int
		html, expansions, err = r.pages.Materialize(browserCtx, target.URL)
		if err != nil {
			return err
		}
		result.ExpansionCount += expansions
		r.cache.Add(target.URL, html)
	}

	products, err := Harvest(html)
	if err != nil {
		return err
	}
	r.Metrics.AddItems(len(products))

	path := filepath.Join(r.cfg.OutputDir, target.OutFile)
	slog.Info("saving products",
		slog.String("file", path),
		slog.Int("count", len(products)),
	)
	if err := r.export(path, products); err != nil {
		return err
	}

	result.ProductCount += len(products)
	result.ProductsPerFile[target.OutFile] = len(products)
	return nil
}
