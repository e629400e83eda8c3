// Package browser manages headless Chrome sessions for automation runs.
// The browser itself is driven by the external agent; this package only
// owns session lifetime: launch, readiness, profile serialization, and
// guaranteed release.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// ErrProfileBusy is returned when a second session is requested on a
// user-data directory that already has an active session. Two Chrome
// instances sharing a profile corrupt it.
var ErrProfileBusy = errors.New("browser profile is in use by another run")

const cdpReadyTimeout = 200 * time.Millisecond

// Options configure one browser session.
type Options struct {
	Headless       bool
	Stealth        bool
	ViewportWidth  int
	ViewportHeight int

	// UserDataDir is the persistent profile directory. Empty means a
	// throwaway temp profile removed on Close.
	UserDataDir string

	// AllowedDomains restricts which sites the agent may visit. The
	// restriction is carried into the task contract; Chrome itself has
	// no such flag.
	AllowedDomains []string

	// Proxy is a proxy URL, e.g. "socks5://127.0.0.1:1080".
	Proxy string

	// BinaryPath overrides Chrome binary discovery.
	BinaryPath string
}

// Session is one running Chrome instance with a CDP endpoint.
type Session struct {
	opts        Options
	cmd         *exec.Cmd
	cdpURL      string
	userDataDir string
	tempProfile bool

	closeOnce sync.Once
	closeErr  error
}

// profile serialization: one active session per user-data dir, process-wide.
var (
	profilesMu     sync.Mutex
	activeProfiles = make(map[string]bool)
)

func acquireProfile(dir string) error {
	profilesMu.Lock()
	defer profilesMu.Unlock()
	if activeProfiles[dir] {
		return fmt.Errorf("%w: %s", ErrProfileBusy, dir)
	}
	activeProfiles[dir] = true
	return nil
}

func releaseProfile(dir string) {
	profilesMu.Lock()
	defer profilesMu.Unlock()
	delete(activeProfiles, dir)
}

// Launch starts Chrome with the given options and waits for its CDP
// endpoint to become ready. The returned session must be closed on every
// exit path.
func Launch(ctx context.Context, opts Options) (*Session, error) {
	userDataDir := opts.UserDataDir
	tempProfile := false
	if userDataDir == "" {
		dir, err := os.MkdirTemp("", "chanpilot-profile-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp profile: %w", err)
		}
		userDataDir = dir
		tempProfile = true
	} else {
		if err := os.MkdirAll(userDataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create profile dir %s: %w", userDataDir, err)
		}
	}

	if err := acquireProfile(userDataDir); err != nil {
		if tempProfile {
			os.RemoveAll(userDataDir)
		}
		return nil, err
	}

	cleanup := func() {
		releaseProfile(userDataDir)
		if tempProfile {
			os.RemoveAll(userDataDir)
		}
	}

	binary := opts.BinaryPath
	if binary == "" {
		var err error
		binary, err = findChromeBinary()
		if err != nil {
			cleanup()
			return nil, err
		}
	}

	port, err := freePort()
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to find free port: %w", err)
	}

	cmd := exec.Command(binary, chromeArgs(opts, port, userDataDir)...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to start Chrome: %w", err)
	}

	cdpURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	if err := waitForCDP(ctx, cdpURL); err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		cleanup()
		return nil, err
	}

	return &Session{
		opts:        opts,
		cmd:         cmd,
		cdpURL:      cdpURL,
		userDataDir: userDataDir,
		tempProfile: tempProfile,
	}, nil
}

// waitForCDP polls the CDP version endpoint until Chrome answers or the
// context is done.
func waitForCDP(ctx context.Context, cdpURL string) error {
	client := &http.Client{Timeout: 2 * time.Second}
	for i := 0; i < 30; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		resp, err := client.Get(cdpURL + "/json/version")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(cdpReadyTimeout)
	}
	return fmt.Errorf("Chrome CDP did not become ready at %s", cdpURL)
}

// chromeArgs builds the Chrome command line for the session options.
func chromeArgs(opts Options, port int, userDataDir string) []string {
	args := []string{
		fmt.Sprintf("--remote-debugging-port=%d", port),
		fmt.Sprintf("--user-data-dir=%s", userDataDir),
		fmt.Sprintf("--window-size=%d,%d", opts.ViewportWidth, opts.ViewportHeight),
		"--no-first-run",
		"--no-default-browser-check",
		"--disable-extensions",
		"--disable-sync",
		"--disable-translate",
		"--mute-audio",
	}
	if opts.Headless {
		args = append(args, "--headless=new", "--disable-gpu")
	}
	if opts.Stealth {
		args = append(args,
			"--disable-blink-features=AutomationControlled",
			"--disable-infobars",
		)
	}
	if opts.Proxy != "" {
		args = append(args, fmt.Sprintf("--proxy-server=%s", opts.Proxy))
	}
	args = append(args, "about:blank")
	return args
}

// CDPURL returns the DevTools endpoint the agent drives.
func (s *Session) CDPURL() string {
	return s.cdpURL
}

// UserDataDir returns the profile directory in use.
func (s *Session) UserDataDir() string {
	return s.userDataDir
}

// AllowedDomains returns the domain restriction for the task contract.
func (s *Session) AllowedDomains() []string {
	return s.opts.AllowedDomains
}

// Close shuts the browser down and releases the profile. Safe to call more
// than once and from deferred paths.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.cmd != nil && s.cmd.Process != nil {
			s.cmd.Process.Kill()
			s.closeErr = s.cmd.Wait()
		}
		releaseProfile(s.userDataDir)
		if s.tempProfile {
			os.RemoveAll(s.userDataDir)
		}
	})
	return s.closeErr
}

// findChromeBinary locates a Chrome/Chromium binary on the system.
func findChromeBinary() (string, error) {
	candidates := []string{
		"google-chrome",
		"google-chrome-stable",
		"chromium",
		"chromium-browser",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return path, nil
		}
		if filepath.IsAbs(c) {
			if _, err := os.Stat(c); err == nil {
				return c, nil
			}
		}
	}
	return "", fmt.Errorf("no Chrome or Chromium binary found; install Chrome/Chromium to run browser automation")
}

// freePort finds an available TCP port.
func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port, nil
}
