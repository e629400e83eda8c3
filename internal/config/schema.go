package config

import (
	"os"
	"path/filepath"
)

// Config represents the root configuration structure for chanpilot.
type Config struct {
	Runs    RunsConfig    `json:"runs"`
	Models  ModelsConfig  `json:"models"`
	Sites   SitesConfig   `json:"sites"`
	Browser BrowserConfig `json:"browser"`
	Notify  NotifyConfig  `json:"notify"`
	FAQ     FAQConfig     `json:"faq"`
}

// RunsConfig holds run-level defaults.
type RunsConfig struct {
	Workspace      string `json:"workspace"`
	DefaultScript  string `json:"defaultScript"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
	MaxItems       int    `json:"maxItems"`
	LogDir         string `json:"logDir"`
}

// ModelsConfig maps model tiers to concrete models on one API endpoint.
type ModelsConfig struct {
	APIKey   string `json:"apiKey"`
	APIBase  string `json:"apiBase,omitempty"`
	Cheap    string `json:"cheap"`
	Balanced string `json:"balanced"`
	Premium  string `json:"premium"`
}

// SitesConfig holds per-site credentials for the automation targets.
type SitesConfig struct {
	Kakao  SiteCredentials `json:"kakao"`
	TikTok SiteCredentials `json:"tiktok"`
}

// SiteCredentials are the login credentials for one target site.
type SiteCredentials struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// Configured reports whether both credential halves are present.
func (s SiteCredentials) Configured() bool {
	return s.Email != "" && s.Password != ""
}

// BrowserConfig holds the browser session defaults for runs.
type BrowserConfig struct {
	Headless       bool   `json:"headless"`
	Stealth        bool   `json:"stealth"`
	ViewportWidth  int    `json:"viewportWidth"`
	ViewportHeight int    `json:"viewportHeight"`
	UserDataDir    string `json:"userDataDir,omitempty"` // persistent profile dir; default <workspace>/profiles/default
	Proxy          string `json:"proxy,omitempty"`       // proxy URL, e.g. "socks5://127.0.0.1:1080"
	Sandboxed      bool   `json:"sandboxed"`             // run Chrome inside a Docker container
	SandboxImage   string `json:"sandboxImage,omitempty"`
}

// NotifyConfig holds the outbound notification sinks.
type NotifyConfig struct {
	SlackWebhookURL string         `json:"slackWebhookUrl,omitempty"`
	Telegram        TelegramNotify `json:"telegram"`
}

// TelegramNotify configures the Telegram notification sink.
type TelegramNotify struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token,omitempty"`
	ChatID  int64  `json:"chatId,omitempty"`
}

// FAQConfig points at the canned-answer data used for auto-replies.
type FAQConfig struct {
	File string `json:"file,omitempty"` // default <workspace>/qna.json
}

// DefaultConfig returns a new Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Runs: RunsConfig{
			Workspace:      "~/.chanpilot/workspace",
			DefaultScript:  "kakao-collect",
			TimeoutSeconds: 600,
			MaxItems:       3,
			LogDir:         "~/.chanpilot/logs",
		},
		Models: ModelsConfig{
			APIBase:  "https://api.openai.com/v1",
			Cheap:    "gpt-3.5-turbo-1106",
			Balanced: "gpt-4o",
			Premium:  "gpt-4.1",
		},
		Browser: BrowserConfig{
			Headless:       false,
			Stealth:        true,
			ViewportWidth:  1280,
			ViewportHeight: 800,
			Sandboxed:      false,
			SandboxImage:   "chromedp/headless-shell:latest",
		},
		Notify: NotifyConfig{
			Telegram: TelegramNotify{Enabled: false},
		},
	}
}

// WorkspacePath returns the absolute path to the workspace directory,
// expanding ~ to the user's home directory.
func (c *Config) WorkspacePath() string {
	workspace := c.Runs.Workspace
	if workspace == "" {
		workspace = "~/.chanpilot/workspace"
	}
	return expandPath(workspace)
}

// LogDirPath returns the absolute run-log directory.
func (c *Config) LogDirPath() string {
	dir := c.Runs.LogDir
	if dir == "" {
		dir = "~/.chanpilot/logs"
	}
	return expandPath(dir)
}

// FAQPath returns the absolute FAQ file path.
func (c *Config) FAQPath() string {
	if c.FAQ.File != "" {
		return expandPath(c.FAQ.File)
	}
	return filepath.Join(c.WorkspacePath(), "qna.json")
}

// ProfileDir returns the browser user-data directory, defaulting to a
// profile under the workspace. At most one run may use it at a time.
func (c *Config) ProfileDir() string {
	if c.Browser.UserDataDir != "" {
		return expandPath(c.Browser.UserDataDir)
	}
	return filepath.Join(c.WorkspacePath(), "profiles", "default")
}

// ModelForTier returns the concrete model name configured for a tier.
// Tier validity is the policy package's concern; anything unrecognized
// maps to the cheap model.
func (c *Config) ModelForTier(tier string) string {
	switch tier {
	case "balanced":
		return c.Models.Balanced
	case "premium":
		return c.Models.Premium
	default:
		return c.Models.Cheap
	}
}

// expandPath expands ~ to the user's home directory and resolves the path.
func expandPath(path string) string {
	if path == "" {
		return path
	}

	// Expand ~ to home directory
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if len(path) == 1 {
			return home
		}
		// Handle ~/path and ~path cases
		if path[1] == '/' || path[1] == filepath.Separator {
			path = filepath.Join(home, path[2:])
		} else {
			path = filepath.Join(home, path[1:])
		}
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return absPath
}
