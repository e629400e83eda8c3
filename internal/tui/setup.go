// Package tui provides interactive terminal user interface components for chanpilot.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/cosduck/chanpilot/internal/config"
)

// Styles for the setup wizard.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginBottom(1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// SetupState holds the state of the setup wizard.
type SetupState struct {
	APIKey          string
	APIBase         string
	ConfigKakao     bool
	KakaoEmail      string
	KakaoPassword   string
	ConfigTikTok    bool
	TikTokEmail     string
	TikTokPassword  string
	ConfigSlack     bool
	SlackWebhookURL string
	ConfigTelegram  bool
	TelegramToken   string
	TelegramChatID  int64
	Headless        bool
	Confirmed       bool
}

// RunSetup runs the interactive setup wizard.
// Returns the configured Config or error.
func RunSetup() (*config.Config, error) {
	state := &SetupState{Headless: true}

	if err := runWelcomeStep(state); err != nil {
		return nil, fmt.Errorf("welcome step failed: %w", err)
	}
	if err := runSitesStep(state); err != nil {
		return nil, fmt.Errorf("sites step failed: %w", err)
	}
	if err := runNotificationsStep(state); err != nil {
		return nil, fmt.Errorf("notifications step failed: %w", err)
	}
	if err := runBrowserStep(state); err != nil {
		return nil, fmt.Errorf("browser step failed: %w", err)
	}
	if err := runConfirmationStep(state); err != nil {
		return nil, fmt.Errorf("confirmation step failed: %w", err)
	}

	if !state.Confirmed {
		return nil, fmt.Errorf("setup cancelled by user")
	}

	cfg := buildConfigFromState(state)
	if err := config.SaveConfig(cfg, ""); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println(successStyle.Render("\n✓ Configuration saved successfully!"))
	fmt.Println(subtitleStyle.Render("Config file: " + config.GetConfigPath()))
	fmt.Println()

	return cfg, nil
}

// runWelcomeStep displays the welcome message and prompts for the model API key.
func runWelcomeStep(state *SetupState) error {
	banner := `
        __                    _ __      __
  _____/ /_  ____ _____  ____  (_) /___  / /_
 / ___/ __ \/ __ '/ __ \/ __ \/ / / __ \/ __/
/ /__/ / / / /_/ / / / / /_/ / / / /_/ / /_
\___/_/ /_/\__,_/_/ /_/ .___/_/_/\____/\__/
                     /_/

 Channel console automation pilot
`
	fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Render(banner))

	welcome := boxStyle.Render(
		titleStyle.Render("Welcome to chanpilot Setup") + "\n\n" +
			"This wizard will help you configure chanpilot.\n" +
			"You can always edit the configuration later at:\n" +
			subtitleStyle.Render(config.GetConfigPath()),
	)
	fmt.Println(welcome)
	fmt.Println()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter your OpenAI API key").
				Description("Used for the browser agent model calls; stored locally and never shared").
				Placeholder("sk-...").
				EchoMode(huh.EchoModePassword).
				Value(&state.APIKey).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("API key is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("API base URL (optional)").
				Description("Leave empty for the default OpenAI endpoint").
				Placeholder("https://api.openai.com/v1").
				Value(&state.APIBase),
		),
	)
	return form.Run()
}

// runSitesStep collects credentials for the channel consoles.
func runSitesStep(state *SetupState) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Configure Kakao channel console?").
				Description("Needed for the kakao-collect script").
				Value(&state.ConfigKakao),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if state.ConfigKakao {
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Kakao account email").
					Value(&state.KakaoEmail),
				huh.NewInput().
					Title("Kakao account password").
					EchoMode(huh.EchoModePassword).
					Value(&state.KakaoPassword),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}

	form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Configure TikTok seller console?").
				Description("Needed for the tiktok-login script").
				Value(&state.ConfigTikTok),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if state.ConfigTikTok {
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("TikTok account email").
					Value(&state.TikTokEmail),
				huh.NewInput().
					Title("TikTok account password").
					EchoMode(huh.EchoModePassword).
					Value(&state.TikTokPassword),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}

	return nil
}

// runNotificationsStep configures run-summary sinks.
func runNotificationsStep(state *SetupState) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Send run summaries to Slack?").
				Value(&state.ConfigSlack),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if state.ConfigSlack {
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Slack incoming webhook URL").
					Placeholder("https://hooks.slack.com/services/...").
					Value(&state.SlackWebhookURL),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}

	form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Send run summaries to Telegram?").
				Value(&state.ConfigTelegram),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if state.ConfigTelegram {
		var chatID string
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Telegram bot token").
					Description("Get one from @BotFather").
					EchoMode(huh.EchoModePassword).
					Value(&state.TelegramToken),
				huh.NewInput().
					Title("Telegram chat ID").
					Placeholder("123456789").
					Value(&chatID).
					Validate(func(s string) error {
						if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", new(int64)); err != nil {
							return fmt.Errorf("chat ID must be a number")
						}
						return nil
					}),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		fmt.Sscanf(strings.TrimSpace(chatID), "%d", &state.TelegramChatID)
	}

	return nil
}

// runBrowserStep configures how the browser is launched.
func runBrowserStep(state *SetupState) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Run the browser headless?").
				Description("Choose No to watch runs in a visible browser window").
				Value(&state.Headless),
		),
	)
	return form.Run()
}

// runConfirmationStep shows a summary and asks for confirmation.
func runConfirmationStep(state *SetupState) error {
	var summary strings.Builder
	summary.WriteString("Model API: configured\n")
	summary.WriteString(fmt.Sprintf("Kakao console: %s\n", enabledLabel(state.ConfigKakao)))
	summary.WriteString(fmt.Sprintf("TikTok console: %s\n", enabledLabel(state.ConfigTikTok)))
	summary.WriteString(fmt.Sprintf("Slack notifications: %s\n", enabledLabel(state.ConfigSlack)))
	summary.WriteString(fmt.Sprintf("Telegram notifications: %s\n", enabledLabel(state.ConfigTelegram)))
	summary.WriteString(fmt.Sprintf("Headless browser: %s", enabledLabel(state.Headless)))

	fmt.Println(boxStyle.Render(titleStyle.Render("Configuration Summary") + "\n\n" + summary.String()))

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this configuration?").
				Value(&state.Confirmed),
		),
	)
	return form.Run()
}

func enabledLabel(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

// buildConfigFromState converts wizard state into a Config.
func buildConfigFromState(state *SetupState) *config.Config {
	cfg := config.DefaultConfig()

	cfg.Models.APIKey = strings.TrimSpace(state.APIKey)
	cfg.Models.APIBase = strings.TrimSpace(state.APIBase)
	cfg.Browser.Headless = state.Headless

	if state.ConfigKakao {
		cfg.Sites.Kakao = config.SiteCredentials{
			Email:    strings.TrimSpace(state.KakaoEmail),
			Password: state.KakaoPassword,
		}
	}
	if state.ConfigTikTok {
		cfg.Sites.TikTok = config.SiteCredentials{
			Email:    strings.TrimSpace(state.TikTokEmail),
			Password: state.TikTokPassword,
		}
	}
	if state.ConfigSlack {
		cfg.Notify.SlackWebhookURL = strings.TrimSpace(state.SlackWebhookURL)
	}
	if state.ConfigTelegram {
		cfg.Notify.Telegram.Enabled = true
		cfg.Notify.Telegram.Token = strings.TrimSpace(state.TelegramToken)
		cfg.Notify.Telegram.ChatID = state.TelegramChatID
	}

	return cfg
}
