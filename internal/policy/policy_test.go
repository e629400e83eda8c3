package policy

import (
	"errors"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if !opts.UseCheapModel {
		t.Error("useCheapModel should default to true")
	}
	if opts.VisionNeeded {
		t.Error("visionNeeded should default to false")
	}
	if opts.VisionDetail != DetailLow {
		t.Errorf("default visionDetail = %q, want %q", opts.VisionDetail, DetailLow)
	}
	if opts.MaxItems != 3 {
		t.Errorf("default maxItems = %d, want 3", opts.MaxItems)
	}
	if !opts.CachingEnabled {
		t.Error("cachingEnabled should default to true")
	}
}

func TestSelectConfig(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want RunConfig
	}{
		{
			name: "optimized collection run",
			opts: Options{UseCheapModel: true, VisionNeeded: true, VisionDetail: DetailLow, MaxItems: 3, CachingEnabled: true},
			want: RunConfig{ModelTier: TierCheap, VisionEnabled: true, VisionDetail: DetailLow, MaxItemsPerRun: 3, CachingEnabled: true},
		},
		{
			name: "balanced tier when cheap model declined",
			opts: Options{UseCheapModel: false, VisionNeeded: true, VisionDetail: DetailHigh, MaxItems: 5},
			want: RunConfig{ModelTier: TierBalanced, VisionEnabled: true, VisionDetail: DetailHigh, MaxItemsPerRun: 5},
		},
		{
			name: "vision disabled forces visionEnabled false",
			opts: Options{UseCheapModel: true, VisionNeeded: false, VisionDetail: DetailHigh, MaxItems: 1},
			want: RunConfig{ModelTier: TierCheap, VisionEnabled: false, VisionDetail: DetailLow, MaxItemsPerRun: 1},
		},
		{
			name: "vision disabled ignores auto detail",
			opts: Options{UseCheapModel: true, VisionNeeded: false, VisionDetail: DetailAuto, MaxItems: 2},
			want: RunConfig{ModelTier: TierCheap, VisionEnabled: false, VisionDetail: DetailLow, MaxItemsPerRun: 2},
		},
		{
			name: "empty detail defaults to low",
			opts: Options{UseCheapModel: true, VisionNeeded: true, MaxItems: 3},
			want: RunConfig{ModelTier: TierCheap, VisionEnabled: true, VisionDetail: DetailLow, MaxItemsPerRun: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectConfig(tt.opts)
			if err != nil {
				t.Fatalf("SelectConfig() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SelectConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSelectConfigDeterministic(t *testing.T) {
	opts := Options{UseCheapModel: true, VisionNeeded: true, VisionDetail: DetailAuto, MaxItems: 7, CachingEnabled: true}

	first, err := SelectConfig(opts)
	if err != nil {
		t.Fatalf("SelectConfig() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		got, err := SelectConfig(opts)
		if err != nil {
			t.Fatalf("SelectConfig() error = %v", err)
		}
		if got != first {
			t.Fatalf("SelectConfig() not deterministic: %+v != %+v", got, first)
		}
	}
}

func TestSelectConfigInvalidMaxItems(t *testing.T) {
	for _, maxItems := range []int{0, -1, -100} {
		opts := DefaultOptions()
		opts.MaxItems = maxItems

		_, err := SelectConfig(opts)
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("SelectConfig(maxItems=%d) error = %v, want ErrInvalidConfiguration", maxItems, err)
		}
	}

	opts := DefaultOptions()
	opts.MaxItems = 1
	if _, err := SelectConfig(opts); err != nil {
		t.Errorf("SelectConfig(maxItems=1) error = %v, want nil", err)
	}
}

func TestSelectConfigInvalidDetail(t *testing.T) {
	opts := DefaultOptions()
	opts.VisionNeeded = true
	opts.VisionDetail = "ultra"

	_, err := SelectConfig(opts)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("SelectConfig(detail=ultra) error = %v, want ErrInvalidConfiguration", err)
	}
}
