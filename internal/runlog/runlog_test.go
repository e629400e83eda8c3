package runlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBeginCreatesRunDirectory(t *testing.T) {
	store := NewStore(t.TempDir())

	run, err := store.Begin("abcdef12-3456", "kakao-collect")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer run.Close()

	info, err := os.Stat(run.Dir())
	if err != nil {
		t.Fatalf("run directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("run path is not a directory")
	}
	if !strings.HasSuffix(run.Dir(), "-abcdef12") {
		t.Errorf("directory %q should end with short run ID", run.Dir())
	}
}

func TestAppendAndReadTranscript(t *testing.T) {
	store := NewStore(t.TempDir())
	run, err := store.Begin("run-1", "price-check")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	if err := run.Append("task", "check prices"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := run.Append("agent", "done"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := run.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	messages, err := ReadTranscript(run.Dir())
	if err != nil {
		t.Fatalf("ReadTranscript() error = %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].Role != "task" || messages[0].Content != "check prices" {
		t.Errorf("first message = %+v", messages[0])
	}
	if messages[1].Role != "agent" {
		t.Errorf("second message role = %q, want agent", messages[1].Role)
	}
}

func TestTranscriptHeaderHoldsRunMetadata(t *testing.T) {
	store := NewStore(t.TempDir())
	run, err := store.Begin("run-2", "tiktok-login")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	run.Close()

	data, err := os.ReadFile(filepath.Join(run.Dir(), "transcript.jsonl"))
	if err != nil {
		t.Fatalf("failed to read transcript: %v", err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]

	var meta struct {
		RunID  string `json:"runId"`
		Script string `json:"script"`
	}
	if err := json.Unmarshal([]byte(header), &meta); err != nil {
		t.Fatalf("failed to parse header: %v", err)
	}
	if meta.RunID != "run-2" || meta.Script != "tiktok-login" {
		t.Errorf("header = %+v", meta)
	}
}

func TestAppendAfterCloseFails(t *testing.T) {
	store := NewStore(t.TempDir())
	run, err := store.Begin("run-3", "kakao-collect")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	run.Close()

	if err := run.Append("agent", "late"); err == nil {
		t.Error("Append() after Close should fail")
	}
}

func TestWriteResultsOnce(t *testing.T) {
	store := NewStore(t.TempDir())
	run, err := store.Begin("run-4", "kakao-collect")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer run.Close()

	payload := map[string]int{"rooms": 3}
	if err := run.WriteResults(payload); err != nil {
		t.Fatalf("WriteResults() error = %v", err)
	}
	if err := run.WriteResults(payload); err == nil {
		t.Error("second WriteResults() should fail")
	}

	data, err := os.ReadFile(filepath.Join(run.Dir(), "results.json"))
	if err != nil {
		t.Fatalf("failed to read results: %v", err)
	}
	var got map[string]int
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("failed to parse results: %v", err)
	}
	if got["rooms"] != 3 {
		t.Errorf("results = %v", got)
	}
}

func TestSaveScreenshotNumbersSequentially(t *testing.T) {
	store := NewStore(t.TempDir())
	run, err := store.Begin("run-5", "tiktok-login")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer run.Close()

	first, err := run.SaveScreenshot([]byte{0x89, 0x50})
	if err != nil {
		t.Fatalf("SaveScreenshot() error = %v", err)
	}
	second, err := run.SaveScreenshot([]byte{0x89, 0x50})
	if err != nil {
		t.Fatalf("SaveScreenshot() error = %v", err)
	}

	if filepath.Base(first) != "screenshot-001.png" {
		t.Errorf("first screenshot = %q", filepath.Base(first))
	}
	if filepath.Base(second) != "screenshot-002.png" {
		t.Errorf("second screenshot = %q", filepath.Base(second))
	}
}
