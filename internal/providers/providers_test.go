package providers

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cosduck/chanpilot/internal/config"
	"github.com/cosduck/chanpilot/internal/policy"
)

func TestVisionDetailMapping(t *testing.T) {
	tests := []struct {
		in   policy.VisionDetail
		want openai.ImageURLDetail
	}{
		{policy.DetailLow, openai.ImageURLDetailLow},
		{policy.DetailHigh, openai.ImageURLDetailHigh},
		{policy.DetailAuto, openai.ImageURLDetailAuto},
		{policy.VisionDetail(""), openai.ImageURLDetailLow},
	}
	for _, tt := range tests {
		if got := visionDetail(tt.in); got != tt.want {
			t.Errorf("visionDetail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewFromConfig(t *testing.T) {
	if _, err := NewFromConfig(nil); err == nil {
		t.Error("NewFromConfig(nil) should fail")
	}

	cfg := config.DefaultConfig()
	if _, err := NewFromConfig(cfg); err == nil {
		t.Error("NewFromConfig() should fail without an API key")
	}

	cfg.Models.APIKey = "sk-test"
	p, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("Name() = %q, want openai", p.Name())
	}
}
