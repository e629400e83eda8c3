package scripts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Loader manages script discovery. Built-in scripts are always present;
// user scripts from the workspace override built-ins with the same name.
type Loader struct {
	workspacePath string
	scripts       map[string]*Script
	mu            sync.RWMutex
}

// NewLoader creates a script loader with the given workspace path.
// workspacePath is typically ~/.chanpilot/workspace
func NewLoader(workspacePath string) *Loader {
	l := &Loader{
		workspacePath: workspacePath,
		scripts:       make(map[string]*Script),
	}
	for _, s := range BuiltIns() {
		l.scripts[s.Name] = s
	}
	return l
}

// Discover finds all SCRIPT.md files under the workspace scripts directory
// and merges them over the built-ins.
func (l *Loader) Discover() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.scripts = make(map[string]*Script)
	for _, s := range BuiltIns() {
		l.scripts[s.Name] = s
	}

	if l.workspacePath == "" {
		return nil
	}
	basePath := filepath.Join(l.workspacePath, "scripts")

	info, err := os.Stat(basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cannot access path %s: %w", basePath, err)
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(basePath)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", basePath, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		scriptName := entry.Name()
		scriptFile := filepath.Join(basePath, scriptName, "SCRIPT.md")
		if _, err := os.Stat(scriptFile); err != nil {
			continue
		}

		script, err := ParseScriptFile(scriptFile)
		if err != nil {
			// Skip unreadable scripts, keep the rest
			continue
		}

		script.Name = scriptName
		l.scripts[scriptName] = script
	}

	return nil
}

// Get returns a script by name, discovering user scripts on first miss.
func (l *Loader) Get(name string) (*Script, error) {
	l.mu.RLock()
	script, exists := l.scripts[name]
	l.mu.RUnlock()

	if exists {
		return script, nil
	}

	if err := l.Discover(); err != nil {
		return nil, fmt.Errorf("failed to discover scripts: %w", err)
	}

	l.mu.RLock()
	script, exists = l.scripts[name]
	l.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("script %q not found", name)
	}
	return script, nil
}

// List returns a sorted list of available script names.
func (l *Loader) List() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.scripts))
	for name := range l.scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every script sorted by name.
func (l *Loader) All() []*Script {
	l.mu.RLock()
	defer l.mu.RUnlock()

	all := make([]*Script, 0, len(l.scripts))
	for _, s := range l.scripts {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// Summary returns a brief listing of available scripts for display.
func (l *Loader) Summary() string {
	var sb strings.Builder
	for _, s := range l.All() {
		desc := s.Description
		if len(desc) > 80 {
			desc = desc[:77] + "..."
		}
		sb.WriteString(fmt.Sprintf("- %s: %s\n", s.Name, desc))
	}
	return sb.String()
}

// Count returns the number of known scripts.
func (l *Loader) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.scripts)
}
