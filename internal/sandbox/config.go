// Package sandbox runs the automation browser inside a Docker container,
// isolating the profile and capping resources per run.
package sandbox

import "time"

// Default configuration values.
const (
	DefaultImage        = "chromedp/headless-shell:latest"
	DefaultMemoryMB     = 1024
	DefaultCPUPercent   = 1.0
	DefaultMaxProcesses = 256
	DefaultStartTimeout = 60 * time.Second
	DefaultCDPPort      = 9222
	containerProfileDir = "/data/profile"
)

// Config holds configuration for the containerized browser.
type Config struct {
	// Image is the headless Chrome container image to use.
	// Default: chromedp/headless-shell:latest
	Image string

	// MemoryMB is the memory limit in megabytes.
	// Default: 1024
	MemoryMB int64

	// CPUPercent is the CPU limit as a fraction of one CPU.
	// Default: 1.0
	CPUPercent float64

	// MaxProcesses is the maximum number of PIDs allowed in the container.
	// Default: 256
	MaxProcesses int64

	// ProfileDir is the host profile directory bind-mounted into the
	// container. Empty means an ephemeral profile inside the container.
	ProfileDir string

	// StartTimeout bounds image pull plus container start plus CDP readiness.
	// Default: 60s
	StartTimeout time.Duration
}

// Validate applies defaults to zero-valued fields.
func (c *Config) Validate() {
	if c.Image == "" {
		c.Image = DefaultImage
	}
	if c.MemoryMB <= 0 {
		c.MemoryMB = DefaultMemoryMB
	}
	if c.CPUPercent <= 0 || c.CPUPercent > 4.0 {
		c.CPUPercent = DefaultCPUPercent
	}
	if c.MaxProcesses <= 0 {
		c.MaxProcesses = DefaultMaxProcesses
	}
	if c.StartTimeout <= 0 {
		c.StartTimeout = DefaultStartTimeout
	}
}
