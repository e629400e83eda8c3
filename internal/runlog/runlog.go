// Package runlog persists run artifacts: conversation transcripts,
// extracted results, and screenshots. One directory per run, named by
// timestamp; files are written once and never mutated afterwards.
package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	transcriptFile = "transcript.jsonl"
	resultsFile    = "results.json"
	dirTimeFormat  = "20060102-150405"
)

// Message is one transcript entry.
type Message struct {
	Role      string    `json:"role"` // task, agent, system, cache
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// runMetadata is the first line of a transcript file.
type runMetadata struct {
	RunID     string    `json:"runId"`
	Script    string    `json:"script"`
	StartedAt time.Time `json:"startedAt"`
}

// Store creates run directories under a base log directory.
type Store struct {
	baseDir string
}

// NewStore creates a store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Begin opens the artifact directory for one run and writes the transcript
// header. The directory name is the start timestamp plus a run ID suffix
// so that two runs in the same second cannot collide.
func (s *Store) Begin(runID, script string) (*Run, error) {
	suffix := runID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	dir := filepath.Join(s.baseDir, fmt.Sprintf("%s-%s", time.Now().Format(dirTimeFormat), suffix))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(filepath.Join(dir, transcriptFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}

	run := &Run{id: runID, dir: dir, transcript: f}
	meta := runMetadata{RunID: runID, Script: script, StartedAt: time.Now()}
	if err := run.appendJSON(meta); err != nil {
		f.Close()
		return nil, err
	}
	return run, nil
}

// Run is the open artifact set for one run in progress.
type Run struct {
	id  string
	dir string

	mu          sync.Mutex
	transcript  *os.File
	screenshots int
	closed      bool
}

// Dir returns the run's artifact directory.
func (r *Run) Dir() string {
	return r.dir
}

// Append writes one transcript entry. Entries are append-only; nothing in
// the file is ever rewritten.
func (r *Run) Append(role, content string) error {
	return r.appendJSON(Message{Role: role, Content: content, Timestamp: time.Now()})
}

func (r *Run) appendJSON(v interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("run log is closed")
	}

	line, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript entry: %w", err)
	}
	if _, err := r.transcript.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append transcript entry: %w", err)
	}
	return nil
}

// SaveScreenshot writes one PNG capture, numbered in arrival order.
func (r *Run) SaveScreenshot(png []byte) (string, error) {
	r.mu.Lock()
	r.screenshots++
	name := fmt.Sprintf("screenshot-%03d.png", r.screenshots)
	r.mu.Unlock()

	path := filepath.Join(r.dir, name)
	if err := os.WriteFile(path, png, 0644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	return path, nil
}

// WriteResults persists the run's extracted payload exactly once.
func (r *Run) WriteResults(v interface{}) error {
	path := filepath.Join(r.dir, resultsFile)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("results already written for run %s", r.id)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

// Close flushes and closes the transcript. Further appends fail.
func (r *Run) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.transcript.Close()
}

// ReadTranscript loads every entry of a finished run's transcript,
// skipping the metadata header.
func ReadTranscript(dir string) ([]Message, error) {
	data, err := os.ReadFile(filepath.Join(dir, transcriptFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	var messages []Message
	for i, line := range splitLines(data) {
		if i == 0 || len(line) == 0 {
			continue // metadata header
		}
		var m Message
		if err := json.Unmarshal(line, &m); err != nil {
			return nil, fmt.Errorf("bad transcript line %d: %w", i+1, err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, data[start:i])
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, data[start:])
	}
	return lines
}
