package sandbox

import (
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.Validate()

	if cfg.Image != DefaultImage {
		t.Errorf("Image = %q, want %q", cfg.Image, DefaultImage)
	}
	if cfg.MemoryMB != DefaultMemoryMB {
		t.Errorf("MemoryMB = %d, want %d", cfg.MemoryMB, DefaultMemoryMB)
	}
	if cfg.CPUPercent != DefaultCPUPercent {
		t.Errorf("CPUPercent = %f, want %f", cfg.CPUPercent, DefaultCPUPercent)
	}
	if cfg.MaxProcesses != DefaultMaxProcesses {
		t.Errorf("MaxProcesses = %d, want %d", cfg.MaxProcesses, DefaultMaxProcesses)
	}
	if cfg.StartTimeout != DefaultStartTimeout {
		t.Errorf("StartTimeout = %v, want %v", cfg.StartTimeout, DefaultStartTimeout)
	}
}

func TestConfigKeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Image:        "chromedp/headless-shell:120",
		MemoryMB:     2048,
		CPUPercent:   2.0,
		MaxProcesses: 100,
		StartTimeout: 10 * time.Second,
		ProfileDir:   "/srv/profiles/kakao",
	}
	cfg.Validate()

	if cfg.Image != "chromedp/headless-shell:120" {
		t.Errorf("Image = %q, should keep explicit value", cfg.Image)
	}
	if cfg.MemoryMB != 2048 || cfg.CPUPercent != 2.0 || cfg.MaxProcesses != 100 {
		t.Error("explicit resource limits should be kept")
	}
	if cfg.ProfileDir != "/srv/profiles/kakao" {
		t.Errorf("ProfileDir = %q, should keep explicit value", cfg.ProfileDir)
	}
}

func TestConfigRejectsAbsurdCPU(t *testing.T) {
	cfg := Config{CPUPercent: 32.0}
	cfg.Validate()
	if cfg.CPUPercent != DefaultCPUPercent {
		t.Errorf("CPUPercent = %f, absurd value should reset to default", cfg.CPUPercent)
	}
}

func TestBuildContainerConfig(t *testing.T) {
	b := &Browser{config: Config{ProfileDir: "/srv/profiles/kakao"}}
	b.config.Validate()

	containerCfg, hostCfg, _ := b.buildContainerConfig()

	if containerCfg.Image != DefaultImage {
		t.Errorf("Image = %q, want %q", containerCfg.Image, DefaultImage)
	}
	if len(hostCfg.Mounts) != 1 || hostCfg.Mounts[0].Source != "/srv/profiles/kakao" {
		t.Errorf("profile mount missing: %+v", hostCfg.Mounts)
	}
	if hostCfg.Resources.Memory != DefaultMemoryMB*1024*1024 {
		t.Errorf("memory limit = %d", hostCfg.Resources.Memory)
	}
	if len(hostCfg.PortBindings) != 1 {
		t.Errorf("expected one CDP port binding, got %d", len(hostCfg.PortBindings))
	}
}

func TestNewWithClientNil(t *testing.T) {
	if _, err := NewWithClient(Config{}, nil); err == nil {
		t.Error("NewWithClient(nil) should fail")
	}
}
