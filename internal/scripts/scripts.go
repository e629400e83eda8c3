// Package scripts provides the run script catalog: built-in automation
// scripts plus user scripts discovered from SCRIPT.md files in the
// workspace. A script bundles the task prompt with the policy options
// and extraction schema a run should use.
package scripts

import (
	"github.com/cosduck/chanpilot/internal/policy"
	"github.com/cosduck/chanpilot/internal/schema"
)

// Script describes one automation run: what to ask the agent, where to
// point the browser, and how the run should be configured.
type Script struct {
	Name           string   // Directory or registry name
	Title          string   // From # heading
	Description    string   // First paragraph
	Site           string   // Credential set to validate (kakao, tiktok, "")
	StartURL       string   // Initial page for the browser session
	AllowedDomains []string // Navigation allow-list, empty means unrestricted
	TaskTemplate   string   // Prompt sent to the external agent
	Options        policy.Options
	Tier           policy.ModelTier // Optional override of the selected tier
	Schema         *schema.ExtractionSchema
	Content        string // Full markdown content for user scripts
	BuiltIn        bool
}

// chatRecordSchema is the extraction contract for chat collection runs.
func chatRecordSchema() *schema.ExtractionSchema {
	return &schema.ExtractionSchema{
		Name: "chat-records",
		Fields: []schema.Field{
			{Name: "roomId", Type: schema.TypeString},
			{Name: "roomName", Type: schema.TypeString},
			{Name: "conversations", Type: schema.TypeList},
			{Name: "autoReply", Type: schema.TypeObject, Optional: true},
		},
	}
}

func priceSchema() *schema.ExtractionSchema {
	return &schema.ExtractionSchema{
		Name: "price-entries",
		Fields: []schema.Field{
			{Name: "item", Type: schema.TypeString},
			{Name: "price", Type: schema.TypeString},
			{Name: "inStock", Type: schema.TypeBool, Optional: true},
		},
	}
}

// BuiltIns returns the scripts compiled into the binary, in display order.
func BuiltIns() []*Script {
	return []*Script{
		{
			Name:        "kakao-collect",
			Title:       "Kakao chat collection",
			Description: "Collect unread chat rooms from the Kakao channel console and draft replies for common questions.",
			Site:        "kakao",
			StartURL:    "https://center-pf.kakao.com/",
			AllowedDomains: []string{
				"center-pf.kakao.com",
				"accounts.kakao.com",
			},
			TaskTemplate: "Open the Kakao channel chat console, log in if needed, and read the unread chat rooms. " +
				"For each room, collect the room ID, room name, and the recent conversation turns. " +
				"Do not send any messages.",
			Options: policy.Options{
				UseCheapModel:  true,
				VisionNeeded:   true,
				VisionDetail:   policy.DetailLow,
				MaxItems:       3,
				CachingEnabled: true,
			},
			Schema:  chatRecordSchema(),
			BuiltIn: true,
		},
		{
			Name:        "tiktok-login",
			Title:       "TikTok seller login",
			Description: "Log in to the TikTok seller console and report the account state.",
			Site:        "tiktok",
			StartURL:    "https://seller.tiktok.com/",
			AllowedDomains: []string{
				"seller.tiktok.com",
				"www.tiktok.com",
			},
			TaskTemplate: "Log in to the TikTok seller console with the provided credentials. " +
				"Handle any verification prompts that can be solved on screen and report the final login state.",
			Options: policy.Options{
				UseCheapModel:  false,
				VisionNeeded:   true,
				VisionDetail:   policy.DetailHigh,
				MaxItems:       1,
				CachingEnabled: false,
			},
			Tier:    policy.TierPremium,
			BuiltIn: true,
		},
		{
			Name:        "price-check",
			Title:       "Product price check",
			Description: "Look up current listing prices for the configured products and report each price found.",
			TaskTemplate: "Visit the product pages, read the current listed price for each item, " +
				"and report the item name, the price as shown, and whether it is in stock.",
			Options: policy.Options{
				UseCheapModel:  true,
				VisionNeeded:   false,
				VisionDetail:   policy.DetailLow,
				MaxItems:       10,
				CachingEnabled: false,
			},
			Schema:  priceSchema(),
			BuiltIn: true,
		},
	}
}
