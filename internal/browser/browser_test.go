package browser

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChromeArgs(t *testing.T) {
	opts := Options{
		Headless:       true,
		Stealth:        true,
		ViewportWidth:  1280,
		ViewportHeight: 800,
		Proxy:          "socks5://127.0.0.1:1080",
	}

	args := strings.Join(chromeArgs(opts, 9222, "/tmp/profile"), " ")

	for _, want := range []string{
		"--remote-debugging-port=9222",
		"--user-data-dir=/tmp/profile",
		"--window-size=1280,800",
		"--headless=new",
		"--disable-blink-features=AutomationControlled",
		"--proxy-server=socks5://127.0.0.1:1080",
	} {
		if !strings.Contains(args, want) {
			t.Errorf("chromeArgs() missing %q in %q", want, args)
		}
	}
}

func TestChromeArgsHeadful(t *testing.T) {
	args := strings.Join(chromeArgs(Options{ViewportWidth: 1440, ViewportHeight: 900}, 9222, "/tmp/p"), " ")

	if strings.Contains(args, "--headless") {
		t.Errorf("headful session should not pass --headless: %q", args)
	}
	if strings.Contains(args, "--proxy-server") {
		t.Errorf("no proxy configured, got %q", args)
	}
}

func TestProfileSerialization(t *testing.T) {
	const dir = "/tmp/chanpilot-test-profile"

	if err := acquireProfile(dir); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	if err := acquireProfile(dir); !errors.Is(err, ErrProfileBusy) {
		t.Errorf("second acquire error = %v, want ErrProfileBusy", err)
	}

	releaseProfile(dir)
	if err := acquireProfile(dir); err != nil {
		t.Errorf("acquire after release failed: %v", err)
	}
	releaseProfile(dir)
}

func TestFreePort(t *testing.T) {
	port, err := freePort()
	if err != nil {
		t.Fatalf("freePort() error = %v", err)
	}
	if port <= 0 || port > 65535 {
		t.Errorf("freePort() = %d, out of range", port)
	}
}

func TestPageText(t *testing.T) {
	html := `<html><head><style>.x{}</style></head><body>
		<script>var hidden = 1;</script>
		<h1>Chat   Console</h1>
		<p>3 unread
		rooms</p>
	</body></html>`

	text, err := PageText(html)
	if err != nil {
		t.Fatalf("PageText() error = %v", err)
	}
	if text != "Chat Console 3 unread rooms" {
		t.Errorf("PageText() = %q", text)
	}
	if strings.Contains(text, "hidden") {
		t.Errorf("PageText() should drop script content: %q", text)
	}
}

func TestPageTextTruncation(t *testing.T) {
	html := "<body>" + strings.Repeat("word ", 20000) + "</body>"

	text, err := PageText(html)
	if err != nil {
		t.Fatalf("PageText() error = %v", err)
	}
	if !strings.HasSuffix(text, "(truncated)") {
		t.Error("PageText() should mark truncated output")
	}
	if len(text) > maxPageTextChars+100 {
		t.Errorf("PageText() length = %d, should be capped", len(text))
	}
}

func TestPageTextTruncationKeepsValidUTF8(t *testing.T) {
	// An unbroken run of 3-byte runes guarantees the byte cap lands
	// mid-rune unless truncation backs up to a boundary.
	html := "<body>" + strings.Repeat("가", 20000) + "</body>"

	text, err := PageText(html)
	if err != nil {
		t.Fatalf("PageText() error = %v", err)
	}
	if !strings.HasSuffix(text, "(truncated)") {
		t.Error("PageText() should mark truncated output")
	}
	if !utf8.ValidString(text) {
		t.Error("PageText() produced invalid UTF-8")
	}
}
