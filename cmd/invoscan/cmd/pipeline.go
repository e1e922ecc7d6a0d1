package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/invoscan/invoscan/internal/config"
	"github.com/invoscan/invoscan/internal/ocr"
	"github.com/invoscan/invoscan/internal/pipeline"
)

// addPipelineFlags registers the flags shared by process and batch.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-pages", 0, "maximum pages to process per document (default from config)")
	cmd.Flags().Int("dpi", 0, "rasterization resolution target (default from config)")
	cmd.Flags().String("template-dir", "", "directory with custom layout templates (*.yaml)")
	cmd.Flags().Bool("no-cache", false, "disable the intermediate-result cache")
	cmd.Flags().String("redis-addr", "", "redis address (host:port) for the shared cache")
	cmd.Flags().Duration("cache-ttl", 0, "cache entry lifetime (default from config)")
	cmd.Flags().Bool("metrics", false, "register prometheus metrics on the default registry")
	cmd.Flags().String("format", "", "output format: json or text (default from config)")
}

// buildPipeline assembles a pipeline from the loaded configuration with
// command flags layered on top. A nil progress callback means silent.
func buildPipeline(cmd *cobra.Command, cfg *config.Config, progress pipeline.ProgressCallback) (*pipeline.Pipeline, error) {
	b := pipeline.NewBuilder().
		WithConfig(cfg.ToPipelineConfig()).
		WithOCREngine(ocr.NewTesseract(cfg.TesseractOptions())).
		WithMemoryCacheSize(cfg.Cache.MemoryEntries)

	if progress != nil {
		b.WithProgress(progress)
	}

	if n, _ := cmd.Flags().GetInt("max-pages"); n > 0 {
		b.WithMaxPages(n)
	}
	if dpi, _ := cmd.Flags().GetInt("dpi"); dpi > 0 {
		b.WithDPI(dpi)
	}
	if dir, _ := cmd.Flags().GetString("template-dir"); dir != "" {
		b.WithTemplateDir(dir)
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		b.WithoutCache()
	}
	if ttl, _ := cmd.Flags().GetDuration("cache-ttl"); ttl > 0 {
		b.WithCacheTTL(ttl)
	}

	redisAddr := cfg.Cache.RedisAddr
	if addr, _ := cmd.Flags().GetString("redis-addr"); addr != "" {
		redisAddr = addr
	}
	if redisAddr != "" {
		b.WithRedis(redisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	}

	if withMetrics, _ := cmd.Flags().GetBool("metrics"); withMetrics {
		b.WithMetrics(prometheus.DefaultRegisterer)
	}

	p, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}
	return p, nil
}

// outputFormat resolves the effective output format.
func outputFormat(cmd *cobra.Command, cfg *config.Config) string {
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		return format
	}
	return cfg.Output.Format
}
