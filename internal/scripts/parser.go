package scripts

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/cosduck/chanpilot/internal/policy"
)

// ParseScriptFile parses a SCRIPT.md file and returns a Script struct.
// The parser extracts:
// - Title from the first # heading
// - Description from the first paragraph after the title
// - Task prompt from the ## Task section
// - Run settings from list items in the ## Settings section
func ParseScriptFile(path string) (*Script, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScriptContent(string(content))
}

// ParseScriptContent parses script content from a string.
func ParseScriptContent(content string) (*Script, error) {
	script := &Script{
		Content: content,
		Options: policy.DefaultOptions(),
	}

	lines := strings.Split(content, "\n")

	script.Title = parseTitle(lines)
	script.Description = parseDescription(lines)
	script.TaskTemplate = parseSection(lines, "task")
	parseSettings(lines, script)

	return script, nil
}

// parseTitle extracts the title from the first # heading.
func parseTitle(lines []string) string {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimPrefix(trimmed, "# ")
		}
	}
	return ""
}

// parseDescription extracts the first paragraph after the title heading.
func parseDescription(lines []string) string {
	foundTitle := false
	var descLines []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !foundTitle {
			if strings.HasPrefix(trimmed, "# ") {
				foundTitle = true
			}
			continue
		}

		if trimmed == "" {
			if len(descLines) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			break
		}
		descLines = append(descLines, trimmed)
	}

	return strings.Join(descLines, " ")
}

// parseSection returns the body text of a ## section, joined into one block.
func parseSection(lines []string, name string) string {
	var body []string
	inSection := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "## ") {
			heading := strings.ToLower(strings.TrimPrefix(trimmed, "## "))
			if heading == name {
				inSection = true
				continue
			} else if inSection {
				break
			}
		}

		if inSection && trimmed != "" {
			body = append(body, trimmed)
		}
	}

	return strings.Join(body, " ")
}

// settingPattern matches list items of the form: - `key`: value
var settingPattern = regexp.MustCompile("^\\s*[-*]\\s*`([^`]+)`\\s*:?\\s*(.*)$")

// parseSettings reads run settings from the ## Settings section.
func parseSettings(lines []string, script *Script) {
	inSection := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "## ") {
			heading := strings.ToLower(strings.TrimPrefix(trimmed, "## "))
			if heading == "settings" {
				inSection = true
				continue
			} else if inSection {
				break
			}
		}

		if !inSection {
			continue
		}

		matches := settingPattern.FindStringSubmatch(line)
		if len(matches) < 3 {
			continue
		}
		applySetting(script, strings.ToLower(matches[1]), strings.TrimSpace(matches[2]))
	}
}

func applySetting(script *Script, key, value string) {
	switch key {
	case "site":
		script.Site = strings.ToLower(value)
	case "start-url", "url":
		script.StartURL = value
	case "domains":
		for _, d := range strings.Split(value, ",") {
			if d = strings.TrimSpace(d); d != "" {
				script.AllowedDomains = append(script.AllowedDomains, d)
			}
		}
	case "vision":
		switch strings.ToLower(value) {
		case "off", "none", "false":
			script.Options.VisionNeeded = false
		case "low":
			script.Options.VisionNeeded = true
			script.Options.VisionDetail = policy.DetailLow
		case "high":
			script.Options.VisionNeeded = true
			script.Options.VisionDetail = policy.DetailHigh
		case "auto":
			script.Options.VisionNeeded = true
			script.Options.VisionDetail = policy.DetailAuto
		}
	case "model":
		switch strings.ToLower(value) {
		case "cheap":
			script.Options.UseCheapModel = true
		case "balanced":
			script.Options.UseCheapModel = false
		case "premium":
			script.Options.UseCheapModel = false
			script.Tier = policy.TierPremium
		}
	case "max-items":
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			script.Options.MaxItems = n
		}
	case "cache":
		script.Options.CachingEnabled = strings.ToLower(value) != "off" && strings.ToLower(value) != "false"
	}
}
