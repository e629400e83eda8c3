// Package agent drives one automation run end to end: it resolves the
// run configuration, acquires a browser session, hands the task to the
// external agent service, and turns the raw payload into validated
// records, artifacts, and notifications.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cosduck/chanpilot/internal/browser"
	"github.com/cosduck/chanpilot/internal/config"
	"github.com/cosduck/chanpilot/internal/faq"
	"github.com/cosduck/chanpilot/internal/notify"
	"github.com/cosduck/chanpilot/internal/policy"
	"github.com/cosduck/chanpilot/internal/providers"
	"github.com/cosduck/chanpilot/internal/runlog"
	"github.com/cosduck/chanpilot/internal/sandbox"
	"github.com/cosduck/chanpilot/internal/schema"
	"github.com/cosduck/chanpilot/internal/scripts"
)

// Runner executes automation scripts. A Runner is safe for sequential
// reuse; concurrent runs against the same browser profile are rejected
// by the browser package.
type Runner struct {
	config   *config.Config
	provider providers.Provider
	store    *runlog.Store
	notifier notify.Notifier
	chatbot  *faq.Chatbot

	// acquire opens the browser for a run and snapshot captures its
	// current page. Both overridable in tests.
	acquire  func(ctx context.Context, script *scripts.Script) (*browserHandle, error)
	snapshot func(ctx context.Context, cdpURL, pageURL string) (*browser.Snapshot, error)
}

// browserHandle is an open browser session: its CDP endpoint and the
// release function that must run on every exit path.
type browserHandle struct {
	cdpURL  string
	release func()
}

// RunnerConfig contains the dependencies for creating a new Runner.
type RunnerConfig struct {
	Config   *config.Config
	Provider providers.Provider

	// Notifier may be nil; NewRunner then builds sinks from the config.
	Notifier notify.Notifier

	// Chatbot may be nil; NewRunner then loads the FAQ file from the
	// config when it exists.
	Chatbot *faq.Chatbot
}

// NewRunner creates a runner with the given configuration.
func NewRunner(rc RunnerConfig) (*Runner, error) {
	if rc.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if rc.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}

	notifier := rc.Notifier
	if notifier == nil {
		notifier = buildNotifier(rc.Config)
	}

	chatbot := rc.Chatbot
	if chatbot == nil {
		if bot, err := faq.LoadChatbot(rc.Config.FAQPath()); err == nil {
			chatbot = bot
		}
	}

	r := &Runner{
		config:   rc.Config,
		provider: rc.Provider,
		store:    runlog.NewStore(rc.Config.LogDirPath()),
		notifier: notifier,
		chatbot:  chatbot,
	}
	r.acquire = r.acquireBrowser
	r.snapshot = browser.Capture
	return r, nil
}

// buildNotifier assembles the configured notification sinks. Sinks that
// fail to construct are skipped with a log line rather than blocking runs.
func buildNotifier(cfg *config.Config) notify.Notifier {
	var sinks []notify.Notifier

	if cfg.Notify.SlackWebhookURL != "" {
		sinks = append(sinks, notify.NewSlackWebhook(cfg.Notify.SlackWebhookURL))
	}
	if cfg.Notify.Telegram.Enabled {
		tg, err := notify.NewTelegram(cfg.Notify.Telegram.Token, cfg.Notify.Telegram.ChatID)
		if err != nil {
			log.Printf("Telegram notifications disabled: %v", err)
		} else {
			sinks = append(sinks, tg)
		}
	}

	return notify.NewMulti(sinks...)
}

// Report is the outcome of one completed run.
type Report struct {
	RunID       string              `json:"runId"`
	Script      string              `json:"script"`
	Config      policy.RunConfig    `json:"config"`
	Model       string              `json:"model"`
	RawPayload  string              `json:"rawPayload,omitempty"`
	Records     []schema.ChatRecord `json:"records,omitempty"`
	CacheHits   int                 `json:"cacheHits"`
	TokensUsed  int                 `json:"tokensUsed"`
	Cost        policy.CostEstimate `json:"cost"`
	Duration    time.Duration       `json:"duration"`
	ArtifactDir string              `json:"artifactDir"`
}

// Plan resolves a script into its run configuration and cost estimate
// without touching the browser or the agent service.
func (r *Runner) Plan(script *scripts.Script) (policy.RunConfig, string, policy.CostEstimate, error) {
	runCfg, err := resolveConfig(script)
	if err != nil {
		return policy.RunConfig{}, "", policy.CostEstimate{}, err
	}

	model := r.config.ModelForTier(string(runCfg.ModelTier))
	tokens := policy.EstimateTaskTokens(r.buildTask(script, runCfg))
	cost, err := policy.EstimateCost(tokens, runCfg.ModelTier)
	if err != nil {
		return policy.RunConfig{}, "", policy.CostEstimate{}, err
	}
	return runCfg, model, cost, nil
}

// resolveConfig applies the policy to the script's options, then the
// script's explicit tier override if it has one.
func resolveConfig(script *scripts.Script) (policy.RunConfig, error) {
	runCfg, err := policy.SelectConfig(script.Options)
	if err != nil {
		return policy.RunConfig{}, err
	}
	if script.Tier != "" {
		if _, err := policy.EstimateCost(0, script.Tier); err != nil {
			return policy.RunConfig{}, fmt.Errorf("%w: tier %q", policy.ErrInvalidConfiguration, script.Tier)
		}
		runCfg.ModelTier = script.Tier
	}
	return runCfg, nil
}

// Run executes one script. It validates configuration before any side
// effect, holds the browser session only for the duration of the agent
// call, and always releases it, including on timeout and failure.
func (r *Runner) Run(ctx context.Context, script *scripts.Script) (*Report, error) {
	if err := r.config.Validate(script.Site); err != nil {
		return nil, err
	}
	runCfg, err := resolveConfig(script)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	runLog, err := r.store.Begin(runID, script.Name)
	if err != nil {
		return nil, err
	}
	defer runLog.Close()

	task := r.buildTask(script, runCfg)
	if err := runLog.Append("task", task); err != nil {
		log.Printf("failed to record task: %v", err)
	}

	started := time.Now()
	timeout := time.Duration(r.config.Runs.TimeoutSeconds) * time.Second
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	handle, err := r.acquire(runCtx, script)
	if err != nil {
		return nil, err
	}
	defer handle.release()

	req := providers.AgentRequest{
		Task:          task,
		Model:         r.config.ModelForTier(string(runCfg.ModelTier)),
		VisionEnabled: runCfg.VisionEnabled,
		VisionDetail:  runCfg.VisionDetail,
		OutputSchema:  script.Schema,
	}
	if snap := r.capturePage(runCtx, handle.cdpURL, script.StartURL, runLog); snap != nil && runCfg.VisionEnabled {
		req.Screenshots = [][]byte{snap.PNG}
	}

	result, err := r.provider.Run(runCtx, req)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return nil, &ExternalAgentError{Provider: r.provider.Name(), Err: err}
	}

	if err := runLog.Append("agent", result.Payload); err != nil {
		log.Printf("failed to record agent payload: %v", err)
	}

	report := &Report{
		RunID:       runID,
		Script:      script.Name,
		Config:      runCfg,
		Model:       r.config.ModelForTier(string(runCfg.ModelTier)),
		RawPayload:  result.Payload,
		TokensUsed:  result.TokensUsed,
		Duration:    time.Since(started),
		ArtifactDir: runLog.Dir(),
	}

	if cost, err := policy.EstimateCost(result.TokensUsed, runCfg.ModelTier); err == nil {
		report.Cost = cost
	}

	if script.Schema != nil && script.Schema.Name == "chat-records" {
		records, err := r.extractRecords(result.Payload, script.Schema, runCfg, runLog)
		if err != nil {
			return nil, err
		}
		report.Records = records
		report.CacheHits = r.attachAutoReplies(records, runCfg, runLog)
	}

	if err := runLog.WriteResults(report); err != nil {
		log.Printf("failed to persist results: %v", err)
	}

	r.notify(ctx, report)
	return report, nil
}

// acquireBrowser opens a browser for the run. The containerized browser
// is preferred when enabled and the Docker daemon answers; otherwise a
// local Chrome process is launched.
func (r *Runner) acquireBrowser(ctx context.Context, script *scripts.Script) (*browserHandle, error) {
	if r.config.Browser.Sandboxed && sandbox.Available(ctx) {
		box, err := sandbox.New(sandbox.Config{
			Image:      r.config.Browser.SandboxImage,
			ProfileDir: r.config.ProfileDir(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create sandboxed browser: %w", err)
		}
		if err := box.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start sandboxed browser: %w", err)
		}
		return &browserHandle{
			cdpURL: box.CDPURL(),
			release: func() {
				if err := box.Stop(context.Background()); err != nil {
					log.Printf("failed to stop sandboxed browser: %v", err)
				}
			},
		}, nil
	}

	session, err := browser.Launch(ctx, browser.Options{
		Headless:       r.config.Browser.Headless,
		Stealth:        r.config.Browser.Stealth,
		ViewportWidth:  r.config.Browser.ViewportWidth,
		ViewportHeight: r.config.Browser.ViewportHeight,
		UserDataDir:    r.config.ProfileDir(),
		AllowedDomains: script.AllowedDomains,
		Proxy:          r.config.Browser.Proxy,
	})
	if err != nil {
		return nil, err
	}
	return &browserHandle{
		cdpURL: session.CDPURL(),
		release: func() {
			if err := session.Close(); err != nil {
				log.Printf("failed to close browser session: %v", err)
			}
		},
	}, nil
}

// capturePage takes a best-effort snapshot of the session's page: the
// readable text goes into the transcript and the screenshot into the
// run's artifacts. A capture failure never fails the run.
func (r *Runner) capturePage(ctx context.Context, cdpURL, pageURL string, runLog *runlog.Run) *browser.Snapshot {
	if cdpURL == "" || r.snapshot == nil {
		return nil
	}

	snap, err := r.snapshot(ctx, cdpURL, pageURL)
	if err != nil {
		log.Printf("page capture skipped: %v", err)
		return nil
	}

	if snap.Text != "" {
		if err := runLog.Append("page", snap.Text); err != nil {
			log.Printf("failed to record page snapshot: %v", err)
		}
	}
	if len(snap.PNG) > 0 {
		if _, err := runLog.SaveScreenshot(snap.PNG); err != nil {
			log.Printf("failed to save screenshot: %v", err)
		}
	}
	return snap
}

// buildTask assembles the prompt for the external agent from the script
// template and the run's constraints.
func (r *Runner) buildTask(script *scripts.Script, runCfg policy.RunConfig) string {
	var sb strings.Builder
	sb.WriteString(script.TaskTemplate)

	if script.StartURL != "" {
		sb.WriteString(fmt.Sprintf("\n\nStart at: %s", script.StartURL))
	}
	if len(script.AllowedDomains) > 0 {
		sb.WriteString(fmt.Sprintf("\nStay within these domains: %s", strings.Join(script.AllowedDomains, ", ")))
	}
	sb.WriteString(fmt.Sprintf("\nProcess at most %d items.", runCfg.MaxItemsPerRun))

	if creds := r.siteCredentials(script.Site); creds != nil {
		sb.WriteString(fmt.Sprintf("\nLog in with email %s and password %s when asked.", creds.Email, creds.Password))
	}
	return sb.String()
}

func (r *Runner) siteCredentials(site string) *config.SiteCredentials {
	switch site {
	case "kakao":
		if r.config.Sites.Kakao.Configured() {
			return &r.config.Sites.Kakao
		}
	case "tiktok":
		if r.config.Sites.TikTok.Configured() {
			return &r.config.Sites.TikTok
		}
	}
	return nil
}

// extractRecords parses the agent payload, validates every record
// against the script's extraction schema, then dedupes the survivors
// and enforces the per-run item bound. Records that violate the schema
// are dropped, not zero-filled.
func (r *Runner) extractRecords(payload string, sch *schema.ExtractionSchema, runCfg policy.RunConfig, runLog *runlog.Run) ([]schema.ChatRecord, error) {
	raw := schema.ExtractJSON(payload)
	if raw == "" {
		return nil, nil
	}

	var generic []map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return nil, &ExternalAgentError{Provider: r.provider.Name(), Err: err}
	}

	var valid []map[string]interface{}
	for i, record := range generic {
		if err := sch.Validate(record); err != nil {
			log.Printf("dropping record %d: %v", i, err)
			if logErr := runLog.Append("system", fmt.Sprintf("dropped record %d: %v", i, err)); logErr != nil {
				log.Printf("failed to record schema violation: %v", logErr)
			}
			continue
		}
		valid = append(valid, record)
	}

	var records []schema.ChatRecord
	if len(valid) > 0 {
		kept, err := json.Marshal(valid)
		if err != nil {
			return nil, &ExternalAgentError{Provider: r.provider.Name(), Err: err}
		}
		records, err = schema.ParseChatRecords(string(kept))
		if err != nil {
			return nil, &ExternalAgentError{Provider: r.provider.Name(), Err: err}
		}
	}

	records = schema.Dedupe(records)
	if len(records) > runCfg.MaxItemsPerRun {
		records = records[:runCfg.MaxItemsPerRun]
	}

	if err := runLog.Append("system", fmt.Sprintf("extracted %d chat records", len(records))); err != nil {
		log.Printf("failed to record extraction: %v", err)
	}
	return records, nil
}

// attachAutoReplies fills in draft replies for collected chats from the
// FAQ chatbot. It returns the number of exact cache hits.
func (r *Runner) attachAutoReplies(records []schema.ChatRecord, runCfg policy.RunConfig, runLog *runlog.Run) int {
	if !runCfg.CachingEnabled || r.chatbot == nil {
		return 0
	}

	hits := 0
	for i := range records {
		question := lastCustomerMessage(records[i].Conversations)
		if question == "" {
			continue
		}

		if answer, ok := r.chatbot.Cache().Lookup(question); ok {
			hits++
			records[i].AutoReply = &schema.AutoReply{Sent: true, Message: answer}
			continue
		}

		answer := r.chatbot.Respond(question, records[i].RoomID)
		if answer == faq.NoReply {
			continue
		}
		records[i].AutoReply = &schema.AutoReply{Sent: true, Message: answer}
	}

	if hits > 0 {
		if err := runLog.Append("cache", fmt.Sprintf("%d answers served from the FAQ cache", hits)); err != nil {
			log.Printf("failed to record cache hits: %v", err)
		}
	}
	return hits
}

func lastCustomerMessage(turns []schema.ConversationTurn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Speaker == "customer" {
			return turns[i].Text
		}
	}
	return ""
}

// notify sends the run summary to every configured sink, best effort.
func (r *Runner) notify(ctx context.Context, report *Report) {
	if r.notifier == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run %s finished in %s.", report.Script, report.Duration.Round(time.Second)))
	if len(report.Records) > 0 {
		sb.WriteString(fmt.Sprintf(" Collected %d chat rooms", len(report.Records)))
		if report.CacheHits > 0 {
			sb.WriteString(fmt.Sprintf(", %d answered from cache", report.CacheHits))
		}
		sb.WriteString(".")
	}
	sb.WriteString(fmt.Sprintf(" Tokens: %d (%.4f cost units).", report.TokensUsed, report.Cost.CostUnits))

	if err := r.notifier.Send(ctx, sb.String()); err != nil {
		log.Printf("notification failed: %v", err)
	}
}
