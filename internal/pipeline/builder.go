package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/invoscan/invoscan/internal/cache"
	"github.com/invoscan/invoscan/internal/extract"
	"github.com/invoscan/invoscan/internal/ocr"
	"github.com/invoscan/invoscan/internal/rasterize"
	"github.com/invoscan/invoscan/internal/score"
	"github.com/invoscan/invoscan/internal/template"
	"github.com/invoscan/invoscan/internal/textextract"
)

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg       Config
	engine    ocr.Engine
	store     cache.Store
	redisAddr string
	redisPass string
	redisDB   int
	memSize   int
	registry  *template.Registry
	metrics   *Metrics
	progress  ProgressCallback
}

// NewBuilder creates a pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// WithMaxPages caps how many pages of each document are processed.
func (b *Builder) WithMaxPages(n int) *Builder {
	if n > 0 {
		b.cfg.Raster.MaxPages = n
	}
	return b
}

// WithDPI sets the rasterization resolution target.
func (b *Builder) WithDPI(dpi int) *Builder {
	if dpi > 0 {
		b.cfg.Raster.DPI = dpi
	}
	return b
}

// WithWorkers bounds batch parallelism.
func (b *Builder) WithWorkers(n int) *Builder {
	if n > 0 {
		b.cfg.Workers = n
	}
	return b
}

// WithOCREngine overrides the recognition engine; nil keeps the default
// tesseract engine.
func (b *Builder) WithOCREngine(engine ocr.Engine) *Builder {
	b.engine = engine
	return b
}

// WithCache supplies an explicit cache store.
func (b *Builder) WithCache(store cache.Store) *Builder {
	b.store = store
	return b
}

// WithRedis configures a Redis cache backend. If the server is unreachable
// at build time the pipeline falls back to the in-memory store.
func (b *Builder) WithRedis(addr, password string, db int) *Builder {
	b.redisAddr = addr
	b.redisPass = password
	b.redisDB = db
	return b
}

// WithMemoryCacheSize bounds the in-memory cache entry count.
func (b *Builder) WithMemoryCacheSize(n int) *Builder {
	b.memSize = n
	return b
}

// WithCacheTTL sets the cache entry lifetime.
func (b *Builder) WithCacheTTL(ttl time.Duration) *Builder {
	if ttl > 0 {
		b.cfg.CacheTTL = ttl
	}
	return b
}

// WithoutCache disables caching entirely.
func (b *Builder) WithoutCache() *Builder {
	b.cfg.UseCache = false
	return b
}

// WithTemplateDir loads custom layout templates from a directory.
func (b *Builder) WithTemplateDir(dir string) *Builder {
	if dir != "" {
		b.cfg.TemplateDir = dir
	}
	return b
}

// WithRegistry supplies a prebuilt template registry.
func (b *Builder) WithRegistry(r *template.Registry) *Builder {
	b.registry = r
	return b
}

// WithWeights overrides the scoring parameters.
func (b *Builder) WithWeights(w score.Weights) *Builder {
	b.cfg.Weights = w
	return b
}

// WithMinTextQuality sets the vector text layer quality threshold.
func (b *Builder) WithMinTextQuality(q float64) *Builder {
	if q > 0 {
		b.cfg.MinTextQuality = q
	}
	return b
}

// WithMetrics registers pipeline collectors on the given registerer.
func (b *Builder) WithMetrics(reg prometheus.Registerer) *Builder {
	b.metrics = NewMetrics(reg)
	return b
}

// WithProgress sets the batch progress callback.
func (b *Builder) WithProgress(cb ProgressCallback) *Builder {
	b.progress = cb
	return b
}

// Build assembles the pipeline. The template registry is loaded here, once,
// and treated as immutable afterwards.
func (b *Builder) Build() (*Pipeline, error) {
	registry := b.registry
	if registry == nil {
		registry = template.NewRegistry()
	}
	if b.cfg.TemplateDir != "" {
		n, err := template.LoadDir(registry, b.cfg.TemplateDir)
		if err != nil {
			return nil, fmt.Errorf("load templates: %w", err)
		}
		slog.Info("custom templates loaded", "dir", b.cfg.TemplateDir, "count", n)
	}

	engine := b.engine
	if engine == nil {
		t := ocr.NewTesseract(ocr.TesseractOptions{})
		if !t.Available() {
			slog.Warn("tesseract not found on PATH, image-only pages will yield empty text")
		}
		engine = t
	}

	store := b.store
	if store == nil && b.cfg.UseCache {
		store = b.buildStore()
	}
	if !b.cfg.UseCache {
		store = nil
	}

	progress := b.progress
	if progress == nil {
		progress = NoOpProgress{}
	}

	return &Pipeline{
		cfg:    b.cfg,
		raster: rasterize.New(b.cfg.Raster),
		texts: textextract.New(engine, store, textextract.Options{
			MinQuality: b.cfg.MinTextQuality,
			TTL:        b.cfg.CacheTTL,
		}),
		registry: registry,
		fields:   extract.New(),
		scorer:   score.New(b.cfg.Weights),
		store:    store,
		metrics:  b.metrics,
		progress: progress,
	}, nil
}

// buildStore picks the cache backend: Redis when configured and reachable,
// otherwise in-memory. Redis is wrapped so later outages degrade to
// recompute instead of failing documents.
func (b *Builder) buildStore() cache.Store {
	if b.redisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		r, err := cache.NewRedis(ctx, b.redisAddr, b.redisPass, b.redisDB)
		if err == nil {
			slog.Info("cache backend ready", "backend", "redis", "addr", b.redisAddr)
			return cache.NewDegrading(r)
		}
		slog.Warn("redis unavailable, using in-memory cache", "addr", b.redisAddr, "error", err)
	}
	return cache.NewMemory(b.memSize, b.cfg.CacheTTL)
}
