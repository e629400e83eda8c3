package faq

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"
)

// NoReply is the sentinel answer meaning the chatbot has nothing useful to
// say and the message should be escalated to a human or the model.
const NoReply = "[null]"

// matchThreshold is the minimum word-overlap score for a fuzzy FAQ hit.
const matchThreshold = 0.3

// intentBonus is added per shared intent keyword between message and question.
const intentBonus = 0.2

// Entry is a single FAQ question/answer pair.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Type     string `json:"type,omitempty"`
}

// Audience groups FAQ entries for one class of customer (e.g. creators vs
// advertisers on a channel console) together with the keywords that
// identify them.
type Audience struct {
	Name     string  `json:"name"`
	Keywords []string `json:"keywords"`
	Greeting string  `json:"greeting,omitempty"`
	Thanks   string  `json:"thanks,omitempty"`
	Entries  []Entry `json:"entries"`
}

// Data is the on-disk FAQ file shape.
type Data struct {
	// IntentKeywords get extra matching weight when present in both the
	// message and a candidate question ("how", "when", "why", ...).
	IntentKeywords []string   `json:"intentKeywords,omitempty"`
	Audiences      []Audience `json:"audiences"`
}

// conversation tracks per-conversation state across messages.
type conversation struct {
	audience  string
	messages  []conversationMessage
	createdAt time.Time
}

type conversationMessage struct {
	role    string
	content string
	at      time.Time
}

// Chatbot answers customer messages from FAQ data without calling a model.
// Responses come from, in order: the exact-match cache, fuzzy FAQ matching
// scoped to the classified audience, then default greeting/thanks replies.
type Chatbot struct {
	data  Data
	cache *Cache

	mu            sync.Mutex
	conversations map[string]*conversation
}

// wordPattern matches letter/digit runs in any script. Go's \w is
// ASCII-only, which would make every Korean question score zero.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// NewChatbot builds a Chatbot from FAQ data. Every entry is also indexed
// into the exact-match cache.
func NewChatbot(data Data) *Chatbot {
	cache := NewCache(nil)
	for _, aud := range data.Audiences {
		for _, e := range aud.Entries {
			if e.Question != "" && e.Answer != "" {
				cache.Add(e.Question, e.Answer)
			}
		}
	}
	if len(data.IntentKeywords) == 0 {
		data.IntentKeywords = []string{"how", "when", "why", "cannot", "can't", "problem", "possible"}
	}
	return &Chatbot{
		data:          data,
		cache:         cache,
		conversations: make(map[string]*conversation),
	}
}

// LoadChatbot reads FAQ data from a JSON file and builds a Chatbot.
func LoadChatbot(path string) (*Chatbot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read FAQ file %s: %w", path, err)
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse FAQ file %s: %w", path, err)
	}
	return NewChatbot(data), nil
}

// Cache exposes the exact-match cache backing this chatbot.
func (b *Chatbot) Cache() *Cache {
	return b.cache
}

// Classify determines which audience a message belongs to by keyword
// scoring. A previously classified conversation keeps its audience.
func (b *Chatbot) Classify(message, conversationID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if conversationID != "" {
		if conv, ok := b.conversations[conversationID]; ok && conv.audience != "" {
			return conv.audience
		}
	}

	lower := strings.ToLower(message)
	best := ""
	bestScore := -1
	for _, aud := range b.data.Audiences {
		score := 0
		for _, kw := range aud.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = aud.Name
		}
	}

	if conversationID != "" {
		conv := b.conversation(conversationID)
		conv.audience = best
	}
	return best
}

// Respond produces an answer for a customer message, or NoReply when the
// FAQ has nothing suitable. conversationID may be empty for one-shot use.
func (b *Chatbot) Respond(message, conversationID string) string {
	if conversationID != "" {
		b.mu.Lock()
		conv := b.conversation(conversationID)
		conv.messages = append(conv.messages, conversationMessage{role: "user", content: message, at: time.Now()})
		b.mu.Unlock()
	}

	response := b.answer(message, conversationID)

	if conversationID != "" {
		b.mu.Lock()
		conv := b.conversation(conversationID)
		conv.messages = append(conv.messages, conversationMessage{role: "assistant", content: response, at: time.Now()})
		b.mu.Unlock()
	}
	return response
}

func (b *Chatbot) answer(message, conversationID string) string {
	// Exact cache hit first: zero scoring work, zero tokens.
	if answer, ok := b.cache.Lookup(message); ok {
		return answer
	}

	audienceName := b.Classify(message, conversationID)
	audience := b.audienceByName(audienceName)
	if audience == nil {
		return NoReply
	}

	if entry := b.bestMatch(message, audience); entry != nil {
		return entry.Answer
	}

	lower := strings.ToLower(message)
	if audience.Greeting != "" && containsAny(lower, "hello", "hi ", "good morning", "good afternoon") {
		return audience.Greeting
	}
	if audience.Thanks != "" && containsAny(lower, "thank", "thanks") {
		return audience.Thanks
	}
	return NoReply
}

// bestMatch scores FAQ entries by word overlap against the message and
// returns the best entry above the threshold, or nil.
func (b *Chatbot) bestMatch(message string, audience *Audience) *Entry {
	lower := strings.ToLower(message)
	messageWords := wordSet(lower)

	var best *Entry
	bestScore := 0.0

	for i := range audience.Entries {
		entry := &audience.Entries[i]
		if entry.Question == "" || entry.Answer == "" {
			continue
		}
		questionLower := strings.ToLower(entry.Question)
		if lower == questionLower {
			return entry
		}

		questionWords := wordSet(questionLower)
		common := 0
		for w := range messageWords {
			if questionWords[w] {
				common++
			}
		}
		score := 0.0
		if common > 0 {
			score = float64(common) / float64(max(len(messageWords), len(questionWords)))
		}
		for _, kw := range b.data.IntentKeywords {
			kw = strings.ToLower(kw)
			if strings.Contains(lower, kw) && strings.Contains(questionLower, kw) {
				score += intentBonus
			}
		}

		if score > bestScore && score > matchThreshold {
			bestScore = score
			best = entry
		}
	}
	return best
}

// Summary returns a human-readable digest of a conversation.
func (b *Chatbot) Summary(conversationID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	conv, ok := b.conversations[conversationID]
	if !ok {
		return "no conversation history"
	}

	userCount := 0
	for _, m := range conv.messages {
		if m.role == "user" {
			userCount++
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "audience: %s\n", conv.audience)
	fmt.Fprintf(&sb, "questions: %d\n", userCount)
	fmt.Fprintf(&sb, "started: %s\n", conv.createdAt.Format("2006-01-02 15:04:05"))

	recent := conv.messages
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}
	if len(recent) > 0 {
		sb.WriteString("recent:\n")
		for _, m := range recent {
			content := m.content
			if runes := []rune(content); len(runes) > 50 {
				content = string(runes[:50]) + "..."
			}
			fmt.Fprintf(&sb, "- %s: %s\n", m.role, content)
		}
	}
	return sb.String()
}

// conversation returns the tracked conversation, creating it if needed.
// Callers must hold b.mu.
func (b *Chatbot) conversation(id string) *conversation {
	conv, ok := b.conversations[id]
	if !ok {
		conv = &conversation{createdAt: time.Now()}
		b.conversations[id] = conv
	}
	return conv
}

func (b *Chatbot) audienceByName(name string) *Audience {
	for i := range b.data.Audiences {
		if b.data.Audiences[i].Name == name {
			return &b.data.Audiences[i]
		}
	}
	return nil
}

func wordSet(s string) map[string]bool {
	words := wordPattern.FindAllString(s, -1)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
