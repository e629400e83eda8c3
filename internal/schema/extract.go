package schema

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	jsonFencePattern = regexp.MustCompile("(?i)```json\\s*([\\s\\S]*?)\\s*```")
	fencePattern     = regexp.MustCompile("```\\s*([\\s\\S]*?)\\s*```")
	arrayPattern     = regexp.MustCompile(`\[[\s\S]*\]`)
)

// ExtractJSON pulls the first well-formed JSON array out of free-form agent
// output. Code fences are stripped first; the match must parse, otherwise
// the empty string is returned.
func ExtractJSON(text string) string {
	if text == "" {
		return ""
	}

	text = jsonFencePattern.ReplaceAllString(text, "$1")
	text = fencePattern.ReplaceAllString(text, "$1")

	match := arrayPattern.FindString(text)
	if match == "" {
		return ""
	}
	if !json.Valid([]byte(match)) {
		return ""
	}
	return match
}

// ConversationTurn is one message inside a collected chat.
type ConversationTurn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// AutoReply records whether a canned reply was sent into a chat room.
type AutoReply struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message,omitempty"`
}

// ChatRecord is one collected chat room: its identity, the conversation
// transcript, and the auto-reply outcome.
type ChatRecord struct {
	RoomID        string             `json:"roomId"`
	RoomName      string             `json:"roomName"`
	Conversations []ConversationTurn `json:"conversations"`
	AutoReply     *AutoReply         `json:"autoReply,omitempty"`
}

// ParseChatRecords decodes agent output into chat records, tolerating
// surrounding prose and code fences.
func ParseChatRecords(text string) ([]ChatRecord, error) {
	payload := ExtractJSON(text)
	if payload == "" {
		return nil, nil
	}
	var records []ChatRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Dedupe removes records that share a (roomId, roomName) identity, keeping
// the first occurrence. Agent runs often re-report rooms across steps.
func Dedupe(records []ChatRecord) []ChatRecord {
	seen := make(map[string]bool, len(records))
	out := records[:0:0]
	for _, r := range records {
		key := r.RoomID + "\x00" + strings.TrimSpace(r.RoomName)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
