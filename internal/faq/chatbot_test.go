package faq

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func testData() Data {
	return Data{
		Audiences: []Audience{
			{
				Name:     "creator",
				Keywords: []string{"review", "ranking", "points", "tier", "campaign"},
				Greeting: "Hello, creator! How can I help?",
				Thanks:   "Thank you for being with us!",
				Entries: []Entry{
					{Question: "When is the tier review?", Answer: "Tier reviews run on the 1st of every month.", Type: "account"},
					{Question: "How do I redeem points?", Answer: "Points can be redeemed from the wallet page.", Type: "product"},
				},
			},
			{
				Name:     "advertiser",
				Keywords: []string{"payment", "invoice", "campaign budget", "store", "ad"},
				Greeting: "Hello! Ask me about ads, billing, or campaigns.",
				Entries: []Entry{
					{Question: "Can you issue a tax invoice?", Answer: "Yes, invoices are issued on the 10th.", Type: "billing"},
				},
			},
		},
	}
}

func TestChatbotExactMatch(t *testing.T) {
	bot := NewChatbot(testData())

	got := bot.Respond("when is the TIER review?", "")
	if got != "Tier reviews run on the 1st of every month." {
		t.Errorf("Respond() = %q, want exact FAQ answer", got)
	}
}

func TestChatbotFuzzyMatch(t *testing.T) {
	bot := NewChatbot(testData())

	got := bot.Respond("how do I redeem my points please", "")
	if got != "Points can be redeemed from the wallet page." {
		t.Errorf("Respond() = %q, want fuzzy FAQ answer", got)
	}
}

func TestChatbotClassify(t *testing.T) {
	bot := NewChatbot(testData())

	if aud := bot.Classify("I need a tax invoice for my payment", ""); aud != "advertiser" {
		t.Errorf("Classify() = %q, want advertiser", aud)
	}
	if aud := bot.Classify("my review ranking dropped", ""); aud != "creator" {
		t.Errorf("Classify() = %q, want creator", aud)
	}
}

func TestChatbotClassifySticky(t *testing.T) {
	bot := NewChatbot(testData())

	first := bot.Classify("I need a tax invoice for my payment", "conv1")
	if first != "advertiser" {
		t.Fatalf("Classify() = %q, want advertiser", first)
	}
	// Ambiguous follow-ups keep the conversation's audience.
	second := bot.Classify("anything else?", "conv1")
	if second != "advertiser" {
		t.Errorf("Classify() follow-up = %q, want advertiser", second)
	}
}

func TestChatbotGreetingAndNoReply(t *testing.T) {
	bot := NewChatbot(testData())

	got := bot.Respond("hello, my ranking question comes later", "")
	if !strings.Contains(got, "creator") {
		t.Errorf("Respond(greeting) = %q, want creator greeting", got)
	}

	if got := bot.Respond("completely unrelated gibberish zzz", ""); got != NoReply {
		t.Errorf("Respond(unknown) = %q, want %q", got, NoReply)
	}
}

func TestChatbotFuzzyMatchKorean(t *testing.T) {
	bot := NewChatbot(Data{
		Audiences: []Audience{{
			Name:     "blogger",
			Keywords: []string{"포인트", "리뷰"},
			Entries: []Entry{
				{Question: "포인트 환급은 어떻게 하나요", Answer: "포인트는 매월 말일에 지급됩니다."},
			},
		}},
	})

	// Not an exact cache key, so this must go through word-overlap scoring.
	got := bot.Respond("포인트 환급은 어떻게 받나요", "")
	if got != "포인트는 매월 말일에 지급됩니다." {
		t.Errorf("Respond() = %q, want Korean FAQ answer", got)
	}
}

func TestWordSetHandlesHangul(t *testing.T) {
	set := wordSet("포인트 환급은 어떻게 하나요")
	if len(set) != 4 {
		t.Fatalf("wordSet() = %v, want 4 words", set)
	}
	if !set["포인트"] {
		t.Error("wordSet() should contain 포인트")
	}
}

func TestSummaryTruncatesOnRuneBoundary(t *testing.T) {
	bot := NewChatbot(testData())

	long := strings.Repeat("포인트환급", 20)
	bot.Respond(long, "conv3")

	summary := bot.Summary("conv3")
	if !utf8.ValidString(summary) {
		t.Error("Summary() produced invalid UTF-8")
	}
	if !strings.Contains(summary, "...") {
		t.Error("Summary() should mark truncated messages")
	}
}

func TestChatbotSummary(t *testing.T) {
	bot := NewChatbot(testData())

	bot.Respond("when is the tier review?", "conv2")
	bot.Respond("thank you so much", "conv2")

	summary := bot.Summary("conv2")
	if !strings.Contains(summary, "questions: 2") {
		t.Errorf("Summary() = %q, want question count 2", summary)
	}
	if !strings.Contains(summary, "audience: creator") {
		t.Errorf("Summary() = %q, want creator audience", summary)
	}

	if got := bot.Summary("missing"); got != "no conversation history" {
		t.Errorf("Summary(missing) = %q", got)
	}
}

func TestLoadChatbot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qna.json")

	raw, err := json.Marshal(testData())
	if err != nil {
		t.Fatalf("marshal test data: %v", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("write test data: %v", err)
	}

	bot, err := LoadChatbot(path)
	if err != nil {
		t.Fatalf("LoadChatbot() error = %v", err)
	}
	if bot.Cache().Len() != 3 {
		t.Errorf("Cache().Len() = %d, want 3", bot.Cache().Len())
	}
}

func TestLoadChatbotMissingFile(t *testing.T) {
	if _, err := LoadChatbot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("LoadChatbot() should fail for a missing file")
	}
}
