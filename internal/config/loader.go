package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// DefaultConfigDir is the default config directory name.
	DefaultConfigDir = ".chanpilot"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.json"
)

// GetConfigDir returns the default config directory path (~/.chanpilot).
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", DefaultConfigDir)
	}
	return filepath.Join(home, DefaultConfigDir)
}

// GetConfigPath returns the default config file path (~/.chanpilot/config.json).
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), DefaultConfigFile)
}

// LoadConfig loads configuration from the specified path, then overlays
// environment variables. If path is empty, it uses the default config path.
// If the config file doesn't exist, it returns the default configuration
// (still overlaid with the environment).
//
// The environment is read exactly once, here at load time; no other
// component reads ambient environment values.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = GetConfigPath()
	}
	path = expandPath(path)

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overlays recognized environment variables onto the config.
// Set values win over the file; unset variables leave the file values alone.
func applyEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Models.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_BASE"); v != "" {
		cfg.Models.APIBase = v
	}
	if v := os.Getenv("KAKAO_EMAIL"); v != "" {
		cfg.Sites.Kakao.Email = v
	}
	if v := os.Getenv("KAKAO_PASSWORD"); v != "" {
		cfg.Sites.Kakao.Password = v
	}
	if v := os.Getenv("TIKTOK_EMAIL"); v != "" {
		cfg.Sites.TikTok.Email = v
	}
	if v := os.Getenv("TIKTOK_PASSWORD"); v != "" {
		cfg.Sites.TikTok.Password = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Notify.SlackWebhookURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Notify.Telegram.Token = v
		cfg.Notify.Telegram.Enabled = true
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Notify.Telegram.ChatID = id
		}
	}
	if v := os.Getenv("CHANPILOT_WORKSPACE"); v != "" {
		cfg.Runs.Workspace = v
	}
}

// Validate checks that everything a run needs is present before any
// external resource is acquired. site may be empty when the script has no
// login step.
func (c *Config) Validate(site string) error {
	if c.Models.APIKey == "" {
		return fmt.Errorf("model API key is not configured (set OPENAI_API_KEY or run setup)")
	}
	switch site {
	case "":
	case "kakao":
		if !c.Sites.Kakao.Configured() {
			return fmt.Errorf("kakao credentials are not configured (set KAKAO_EMAIL and KAKAO_PASSWORD)")
		}
	case "tiktok":
		if !c.Sites.TikTok.Configured() {
			return fmt.Errorf("tiktok credentials are not configured (set TIKTOK_EMAIL and TIKTOK_PASSWORD)")
		}
	default:
		return fmt.Errorf("unknown site %q", site)
	}
	return nil
}

// SaveConfig saves the configuration to the specified path.
// If path is empty, it uses the default config path.
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = GetConfigPath()
	}
	path = expandPath(path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Credentials live in this file; owner-only permissions.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// Exists checks if a config file exists at the given path.
// If path is empty, checks the default config path.
func Exists(path string) bool {
	if path == "" {
		path = GetConfigPath()
	}
	path = expandPath(path)
	_, err := os.Stat(path)
	return err == nil
}

// EnsureWorkspaceDir ensures the workspace directory exists.
func EnsureWorkspaceDir(cfg *Config) error {
	workspace := cfg.WorkspacePath()
	if err := os.MkdirAll(workspace, 0755); err != nil {
		return fmt.Errorf("failed to create workspace directory %s: %w", workspace, err)
	}
	return nil
}
