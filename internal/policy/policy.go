// Package policy selects run configurations that balance token cost against
// extraction quality for browser automation runs.
package policy

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when run options fail validation.
var ErrInvalidConfiguration = errors.New("invalid run configuration")

// ModelTier is a named cost/quality class of language model.
type ModelTier string

const (
	TierCheap    ModelTier = "cheap"
	TierBalanced ModelTier = "balanced"
	TierPremium  ModelTier = "premium"
)

// VisionDetail controls how much image detail is sent to the model per screenshot.
type VisionDetail string

const (
	DetailLow  VisionDetail = "low"
	DetailHigh VisionDetail = "high"
	DetailAuto VisionDetail = "auto"
)

// Options are the recognized knobs for selecting a run configuration.
// Unknown options do not exist: this is a closed record, and every field
// has an explicit default from DefaultOptions.
type Options struct {
	UseCheapModel  bool         `json:"useCheapModel"`
	VisionNeeded   bool         `json:"visionNeeded"`
	VisionDetail   VisionDetail `json:"visionDetail,omitempty"`
	MaxItems       int          `json:"maxItems"`
	CachingEnabled bool         `json:"cachingEnabled"`
}

// DefaultOptions returns the documented defaults: cheap model, no vision,
// at most 3 items per run, FAQ caching on.
func DefaultOptions() Options {
	return Options{
		UseCheapModel:  true,
		VisionNeeded:   false,
		VisionDetail:   DetailLow,
		MaxItems:       3,
		CachingEnabled: true,
	}
}

// RunConfig is the fully-resolved configuration for one automation run.
// It is immutable once constructed.
type RunConfig struct {
	ModelTier      ModelTier    `json:"modelTier"`
	VisionEnabled  bool         `json:"visionEnabled"`
	VisionDetail   VisionDetail `json:"visionDetail"`
	MaxItemsPerRun int          `json:"maxItemsPerRun"`
	CachingEnabled bool         `json:"cachingEnabled"`
}

// SelectConfig resolves Options into a RunConfig. It is a pure function:
// the same options always produce the same configuration.
//
// When VisionNeeded is false, VisionEnabled is forced false and the detail
// level is normalized to low regardless of the supplied value. MaxItems
// must be positive; a zero or negative bound would allow unbounded cost
// accrual or an empty run, both rejected.
func SelectConfig(opts Options) (RunConfig, error) {
	if opts.MaxItems <= 0 {
		return RunConfig{}, fmt.Errorf("%w: maxItems must be >= 1, got %d", ErrInvalidConfiguration, opts.MaxItems)
	}

	detail := opts.VisionDetail
	if detail == "" {
		detail = DetailLow
	}
	switch detail {
	case DetailLow, DetailHigh, DetailAuto:
	default:
		return RunConfig{}, fmt.Errorf("%w: unknown vision detail %q", ErrInvalidConfiguration, opts.VisionDetail)
	}

	tier := TierCheap
	if !opts.UseCheapModel {
		tier = TierBalanced
	}

	if !opts.VisionNeeded {
		// No vision means no screenshots are sent at all; the detail
		// level is irrelevant and pinned to low for determinism.
		return RunConfig{
			ModelTier:      tier,
			VisionEnabled:  false,
			VisionDetail:   DetailLow,
			MaxItemsPerRun: opts.MaxItems,
			CachingEnabled: opts.CachingEnabled,
		}, nil
	}

	return RunConfig{
		ModelTier:      tier,
		VisionEnabled:  true,
		VisionDetail:   detail,
		MaxItemsPerRun: opts.MaxItems,
		CachingEnabled: opts.CachingEnabled,
	}, nil
}
