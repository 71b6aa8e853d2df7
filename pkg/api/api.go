// pkg/api/api.go

// Package api is the public surface of the extraction engine: a Client
// facade for embedding and an HTTP server exposing extraction over REST.
package api

import (
	"context"
	"fmt"

	"github.com/storylens/storylens/internal/brand"
	"github.com/storylens/storylens/internal/config"
	"github.com/storylens/storylens/internal/extract"
	"github.com/storylens/storylens/internal/media"
	"github.com/storylens/storylens/internal/monitoring"
	"github.com/storylens/storylens/internal/ocr"
	"github.com/storylens/storylens/internal/rawitem"
	"github.com/storylens/storylens/internal/textscan"
	"github.com/storylens/storylens/internal/utils"
	"github.com/storylens/storylens/pkg/types"
)

// Re-export the shapes callers need so embedding the engine requires only
// this package and pkg/types.
type Config = config.Config
type StoryRecord = types.StoryRecord

// Client is the high-level extraction interface: feed it a raw tray
// envelope, get normalized records back.
type Client struct {
	cfg     *config.Config
	engine  *extract.Engine
	runner  *extract.Runner
	metrics *monitoring.MetricsManager
	logger  utils.Logger
}

// NewClient assembles the full extraction stack from configuration.
// Capabilities that fail to initialize (missing tesseract or ffmpeg
// binaries) degrade silently: the engine records advisory errors per item
// instead.
func NewClient(cfg *config.Config, logger utils.Logger) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = utils.NewLoggerWithLevel(utils.ParseLogLevel(cfg.LogLevel))
	}

	scanner := &textscan.Scanner{
		PlatformHost: cfg.Extraction.PlatformHost,
		ShimHost:     cfg.Extraction.ShimHost,
		ShimParam:    cfg.Extraction.ShimParam,
	}

	var metrics *monitoring.MetricsManager
	if cfg.Metrics.Enabled {
		metrics = monitoring.NewMetricsManager(monitoring.MetricsConfig{})
	}

	var pipeline *ocr.Pipeline
	if cfg.OCR.Enabled {
		fetcher := media.NewHTTPFetcher(media.HTTPFetcherOptions{
			Timeout:       cfg.Fetch.Timeout,
			RatePerSecond: cfg.Fetch.RatePerSecond,
			UserAgent:     cfg.Fetch.UserAgent,
			MaxBytes:      cfg.Fetch.MaxBytes,
		})

		engine, err := ocr.NewTesseract(cfg.OCR.TesseractPath)
		if err != nil {
			logger.WithField("error", err).Warn("OCR engine unavailable")
		}
		var frames ocr.FrameExtractor
		if ff, err := ocr.NewFFmpeg(cfg.OCR.FFmpegPath); err != nil {
			logger.WithField("error", err).Warn("frame extractor unavailable")
		} else {
			frames = ff
		}

		if engine != nil {
			pipeline = ocr.NewPipeline(ocr.PipelineOptions{
				Engine:    engine,
				Frames:    frames,
				Fetcher:   fetcher,
				Staging:   ocr.NewStaging(cfg.OCR.StagingDir),
				Scanner:   scanner,
				Languages: cfg.OCR.Languages,
				Logger:    logger,
			})
		}
	}

	var brands *brand.Matcher
	if cfg.Extraction.Brands {
		brands = brand.NewMatcher()
	}

	engine := extract.NewEngine(extract.EngineOptions{
		Scanner:     scanner,
		CDNSuffixes: cfg.Extraction.CDNSuffixes,
		OCR:         pipeline,
		Brands:      brands,
		Metrics:     metrics,
		Logger:      logger,
	})

	return &Client{
		cfg:     cfg,
		engine:  engine,
		runner:  extract.NewRunner(engine, cfg.Extraction.Workers, metrics, logger),
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Metrics exposes the metrics manager, nil when metrics are disabled.
func (c *Client) Metrics() *monitoring.MetricsManager {
	return c.metrics
}

// ExtractEnvelope resolves the item tray inside a raw API envelope for
// userID and extracts every item. Items that fail individually are dropped
// with a warning; the envelope itself failing to resolve is an error.
func (c *Client) ExtractEnvelope(ctx context.Context, envelope []byte, userID string) ([]*types.StoryRecord, error) {
	env, err := rawitem.Decode(envelope)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrCodeBadEnvelope, "envelope is not a JSON object")
	}

	items := rawitem.ItemsFromEnvelope(env, userID)
	return c.ExtractItems(ctx, items, userID)
}

// ExtractItems extracts a pre-resolved item list.
func (c *Client) ExtractItems(ctx context.Context, items []rawitem.Item, userID string) ([]*types.StoryRecord, error) {
	opts := extract.Options{UserID: userID}
	if c.cfg.Extraction.DebugDir != "" {
		sink, err := extract.NewDirDebugSink(c.cfg.Extraction.DebugDir, c.logger)
		if err != nil {
			c.logger.WithField("error", err).Warn("debug sink unavailable")
		} else {
			opts.Debug = sink
		}
	}

	results := c.runner.Run(ctx, items, opts)
	for i, res := range results {
		if res.Err != nil {
			c.logger.WithFields(map[string]interface{}{
				"index": i,
				"error": res.Err,
			}).Warn("item extraction failed")
		}
	}

	records := extract.Records(results)
	if len(records) == 0 && len(items) > 0 {
		return records, fmt.Errorf("all %d items failed extraction", len(items))
	}
	return records, nil
}

// ExtractItem extracts a single raw item.
func (c *Client) ExtractItem(ctx context.Context, item rawitem.Item, userID string) (*types.StoryRecord, error) {
	return c.engine.Extract(ctx, item, extract.Options{UserID: userID})
}
