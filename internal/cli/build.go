package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/screenguard/internal/alert"
	"github.com/ppiankov/screenguard/internal/assess"
	"github.com/ppiankov/screenguard/internal/capture"
	"github.com/ppiankov/screenguard/internal/config"
	"github.com/ppiankov/screenguard/internal/keyword"
	"github.com/ppiankov/screenguard/internal/ocr"
	"github.com/ppiankov/screenguard/internal/permission"
	"github.com/ppiankov/screenguard/internal/scan"
)

// pipeline bundles the wired scan components and their teardown.
type pipeline struct {
	orchestrator *scan.Orchestrator
	store        *keyword.Store
	manager      *capture.Manager
	holder       *permission.Holder
}

// close releases the pipeline in reverse construction order.
func (p *pipeline) close() {
	p.manager.Shutdown()
	p.holder.Clear()
	if err := p.store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "screenguard: close keyword store: %v\n", err)
	}
}

// buildPipeline assembles the scan pipeline from configuration. The
// permission grant is implicit in daemon mode: pointing the service at a
// frame spool is the consent act, and revocation arrives as the spool
// disappearing.
func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline, error) {
	store, err := keyword.Open(cfg.Keywords.Path)
	if err != nil {
		return nil, err
	}

	n, err := store.Count(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if n == 0 {
		if err := store.InsertDefaults(ctx, keyword.Defaults()); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	keywords, err := store.LoadAll(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	holder := permission.NewHolder()
	holder.Set(permission.NewGrant(nil))

	if err := os.MkdirAll(cfg.Capture.SpoolDir, 0750); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("create spool directory: %w", err)
	}
	backend := capture.NewSpoolBackend(cfg.Capture.SpoolDir)
	manager := capture.NewManager(backend, holder, capture.Config{
		Width:          cfg.Capture.Width,
		Height:         cfg.Capture.Height,
		Density:        cfg.Capture.Density,
		AcquireTimeout: cfg.Capture.AcquireTimeout,
	})

	recognizer := ocr.NewExecRecognizer(cfg.OCR.Command, cfg.OCR.Args)
	if cfg.OCR.Timeout > 0 {
		recognizer.Timeout = cfg.OCR.Timeout
	}
	bridge := ocr.NewBridge(recognizer)

	gen, err := buildGenerator(ctx, cfg.Assess)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	presenters := []scan.Presenter{&alert.ConsolePresenter{Out: os.Stdout}}
	if d := alert.NewDispatcher(cfg.Alerts); d != nil {
		presenters = append(presenters, d)
	}

	orchestrator := scan.NewOrchestrator(scan.Options{
		Holder:     holder,
		Frames:     manager,
		Extractor:  bridge,
		Assessor:   assess.NewClient(gen),
		Keywords:   keywords,
		Presenters: presenters,
		PerMinute:  cfg.Scan.PerMinute,
	})

	return &pipeline{
		orchestrator: orchestrator,
		store:        store,
		manager:      manager,
		holder:       holder,
	}, nil
}

// buildGenerator selects the AI transport. Provider "none" (or empty)
// yields no generator; the assessor then degrades every verdict.
func buildGenerator(ctx context.Context, cfg config.AssessConfig) (assess.Generator, error) {
	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "bedrock":
		return assess.NewBedrockGenerator(ctx, assess.BedrockConfig{
			Region:    cfg.Region,
			ModelID:   cfg.ModelID,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			MaxTokens: int32(cfg.MaxTokens),
		})
	case "http":
		return assess.NewHTTPGenerator(assess.HTTPConfig{
			APIURL:    cfg.APIURL,
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown assess provider %q (want bedrock, http, or none)", cfg.Provider)
	}
}
