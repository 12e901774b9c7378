// Package pipeline provides the core load → validate → migrate → compose
// pipeline for floorforge.
//
// This package implements the document processing flow shared by the CLI
// and the HTTP API. By centralizing it, both entry points agree on
// validation semantics, migration order, and scene caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Validate: structural checks on the raw document
//  2. Migrate: forward schema upgrades to the current version
//  3. Compose: expansion of grids and conversion to world space
//
// Composition is deterministic, so composed scenes are cached under a hash
// of the raw document bytes.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, docBytes)
//	if err != nil {
//	    return err
//	}
//	if !result.Validation.Valid {
//	    // report result.Validation.Errors
//	}
//	renderable := result.Scene
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"floorforge/pkg/cache"
	"floorforge/pkg/observability"
	"floorforge/pkg/scene"
	"floorforge/pkg/schema"
)

// DefaultSceneTTL bounds how long composed scenes stay cached.
const DefaultSceneTTL = 24 * time.Hour

// Stats records per-stage timings.
type Stats struct {
	ValidateTime time.Duration `json:"validate_time"`
	ComposeTime  time.Duration `json:"compose_time"`
}

// Result is the outcome of one pipeline run.
//
// Validation is always populated. Document and Scene are nil when the
// document failed validation; an invalid document is a reported outcome,
// not an error.
type Result struct {
	Validation schema.Result     `json:"validation"`
	Document   *schema.Document  `json:"document,omitempty"`
	Scene      *scene.WorldScene `json:"scene,omitempty"`
	DocHash    string            `json:"doc_hash"`
	CacheHit   bool              `json:"cache_hit"`
	Stats      Stats             `json:"stats"`
}

// Runner executes the pipeline with scene caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different documents.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete validate → migrate → compose pipeline.
func (r *Runner) Execute(ctx context.Context, data []byte) (*Result, error) {
	result := &Result{
		DocHash: cache.Hash(data),
	}

	// Stage 1: Validate
	validateStart := time.Now()
	result.Validation = schema.ValidateBytes(data)
	result.Stats.ValidateTime = time.Since(validateStart)
	observability.Pipeline().OnValidate(ctx, result.Validation.Valid, len(result.Validation.Errors), result.Stats.ValidateTime)

	if !result.Validation.Valid {
		r.Logger.Warn("document failed validation",
			"errors", len(result.Validation.Errors),
			"duration", result.Stats.ValidateTime)
		return result, nil
	}

	// Stage 2: Migrate
	doc, err := schema.Parse(data)
	if err != nil {
		// Validation accepted the bytes, so a parse failure here is an
		// internal inconsistency, not a user error.
		return nil, fmt.Errorf("parse validated document: %w", err)
	}
	result.Document = schema.Migrate(doc)

	// Stage 3: Compose, with caching keyed on the raw document hash.
	composeStart := time.Now()
	observability.Pipeline().OnComposeStart(ctx, doc.SiteID)
	sc, hit, err := r.composeCached(ctx, result.DocHash, doc)
	result.Stats.ComposeTime = time.Since(composeStart)
	if err != nil {
		observability.Pipeline().OnComposeComplete(ctx, doc.SiteID, 0, result.Stats.ComposeTime, err)
		return nil, fmt.Errorf("compose: %w", err)
	}
	result.Scene = sc
	result.CacheHit = hit
	observability.Pipeline().OnComposeComplete(ctx, doc.SiteID, len(sc.Equipment), result.Stats.ComposeTime, nil)

	r.Logger.Info("composed scene",
		"site", doc.SiteID,
		"walls", len(sc.Walls),
		"units", len(sc.Equipment),
		"cached", hit,
		"duration", result.Stats.ComposeTime)

	return result, nil
}

// composeCached returns the composed scene for a document, serving it from
// the cache when possible.
func (r *Runner) composeCached(ctx context.Context, docHash string, doc *schema.Document) (*scene.WorldScene, bool, error) {
	key := r.Keyer.SceneKey(docHash)

	if data, ok, err := r.Cache.Get(ctx, key); err != nil {
		r.Logger.Debug("scene cache read failed", "err", err)
	} else if ok {
		if sc, err := scene.Unmarshal(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "scene")
			return sc, true, nil
		}
		// Corrupt entry - drop it and recompose.
		_ = r.Cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "scene")

	sc, err := scene.ComposeDocument(doc)
	if err != nil {
		return nil, false, err
	}

	if data, err := sc.Marshal(); err == nil {
		if err := r.Cache.Set(ctx, key, data, DefaultSceneTTL); err != nil {
			r.Logger.Debug("scene cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "scene", len(data))
		}
	}
	return sc, false, nil
}
