package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cosduck/chanpilot/internal/config"
)

// Status display styles.
var (
	statusTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205")).
				MarginBottom(1).
				Padding(0, 1)

	statusBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Width(60)

	statusSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				MarginTop(1)

	statusLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Width(20)

	statusValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255"))

	statusEnabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	statusDisabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	statusWarningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214"))
)

// RenderStatus renders the current configuration as a status box.
func RenderStatus(cfg *config.Config) string {
	var sb strings.Builder

	sb.WriteString(statusSectionStyle.Render("Model"))
	sb.WriteString("\n")
	sb.WriteString(statusRow("API key", maskSecret(cfg.Models.APIKey)))
	sb.WriteString(statusRow("Cheap tier", cfg.Models.Cheap))
	sb.WriteString(statusRow("Balanced tier", cfg.Models.Balanced))
	sb.WriteString(statusRow("Premium tier", cfg.Models.Premium))

	sb.WriteString(statusSectionStyle.Render("Sites"))
	sb.WriteString("\n")
	sb.WriteString(statusToggleRow("Kakao console", cfg.Sites.Kakao.Configured()))
	sb.WriteString(statusToggleRow("TikTok console", cfg.Sites.TikTok.Configured()))

	sb.WriteString(statusSectionStyle.Render("Browser"))
	sb.WriteString("\n")
	sb.WriteString(statusToggleRow("Headless", cfg.Browser.Headless))
	sb.WriteString(statusToggleRow("Sandboxed", cfg.Browser.Sandboxed))
	sb.WriteString(statusRow("Viewport", fmt.Sprintf("%dx%d", cfg.Browser.ViewportWidth, cfg.Browser.ViewportHeight)))

	sb.WriteString(statusSectionStyle.Render("Notifications"))
	sb.WriteString("\n")
	sb.WriteString(statusToggleRow("Slack", cfg.Notify.SlackWebhookURL != ""))
	sb.WriteString(statusToggleRow("Telegram", cfg.Notify.Telegram.Enabled))

	sb.WriteString(statusSectionStyle.Render("Runs"))
	sb.WriteString("\n")
	sb.WriteString(statusRow("Default script", cfg.Runs.DefaultScript))
	sb.WriteString(statusRow("Timeout", fmt.Sprintf("%ds", cfg.Runs.TimeoutSeconds)))
	sb.WriteString(statusRow("Log directory", cfg.LogDirPath()))

	body := statusTitleStyle.Render("chanpilot status") + "\n" + sb.String()
	return statusBoxStyle.Render(body)
}

func statusRow(label, value string) string {
	if value == "" {
		value = statusWarningStyle.Render("not set")
		return fmt.Sprintf("%s %s\n", statusLabelStyle.Render(label), value)
	}
	return fmt.Sprintf("%s %s\n", statusLabelStyle.Render(label), statusValueStyle.Render(value))
}

func statusToggleRow(label string, enabled bool) string {
	state := statusDisabledStyle.Render("disabled")
	if enabled {
		state = statusEnabledStyle.Render("enabled")
	}
	return fmt.Sprintf("%s %s\n", statusLabelStyle.Render(label), state)
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
