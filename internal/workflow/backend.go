package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/wayfarer/internal/progress"
	"github.com/JaimeStill/wayfarer/internal/prompts"
	"github.com/JaimeStill/wayfarer/internal/search"
	"github.com/JaimeStill/wayfarer/pkg/formatting"
)

var errEmptyResponse = errors.New("backend returned empty text")

// Request is everything a backend needs to generate one stage's text.
// Context holds the outputs of the stage's dependencies in declaration
// order.
type Request struct {
	Stage          prompts.Stage
	Persona        prompts.Persona
	Instruction    string
	ExpectedOutput string
	SearchQuery    string
	Context        []StageResult
	Progress       progress.Emitter
}

// Backend generates text for a stage. Retries, timeouts and request
// ceilings are the backend's concern.
type Backend interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Completer sends a composed prompt to a model and returns its text.
type Completer func(ctx context.Context, prompt string) (string, error)

// AgentCompleter returns a Completer backed by a go-agents agent. A new
// agent is created per call.
func AgentCompleter(cfg gaconfig.AgentConfig, temperature float64) Completer {
	return func(ctx context.Context, prompt string) (string, error) {
		a, err := agent.New(&cfg)
		if err != nil {
			return "", fmt.Errorf("create agent: %w", err)
		}

		resp, err := a.Chat(ctx, prompt, map[string]any{"temperature": temperature})
		if err != nil {
			return "", fmt.Errorf("chat call: %w", err)
		}

		return resp.Content(), nil
	}
}

// BackendConfig tunes the retry, timeout and rate behavior of AgentBackend.
type BackendConfig struct {
	MaxRetries    int
	Timeout       time.Duration
	MaxRPM        int
	RetryInterval time.Duration
}

// AgentBackend is the default Backend. It grounds each stage with search
// results when a searcher is configured, then calls the completer under a
// shared request-per-minute limiter with bounded exponential retry.
type AgentBackend struct {
	complete Completer
	searcher search.Searcher
	limiter  *rate.Limiter
	cfg      BackendConfig
	logger   *slog.Logger
}

// NewAgentBackend creates a backend. searcher may be nil. A MaxRPM of zero
// disables the limiter.
func NewAgentBackend(
	complete Completer,
	searcher search.Searcher,
	cfg BackendConfig,
	logger *slog.Logger,
) *AgentBackend {
	limit := rate.Inf
	if cfg.MaxRPM > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.MaxRPM))
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = time.Second
	}

	return &AgentBackend{
		complete: complete,
		searcher: searcher,
		limiter:  rate.NewLimiter(limit, 1),
		cfg:      cfg,
		logger:   logger.With("backend", "agent"),
	}
}

func (b *AgentBackend) Generate(ctx context.Context, req Request) (string, error) {
	emit := emitter(req.Progress)
	grounding := b.ground(ctx, req, emit)
	prompt := ComposePrompt(req, grounding)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = b.cfg.RetryInterval

	attempt := 0
	text, err := backoff.Retry(ctx, func() (string, error) {
		attempt++
		text, err := b.call(ctx, prompt)
		if err == nil {
			if text = formatting.Unfence(text); text == "" {
				return "", errEmptyResponse
			}
			return text, nil
		}
		if ctx.Err() != nil || permanent(err) {
			return "", backoff.Permanent(err)
		}
		return "", err
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(b.cfg.MaxRetries+1)),
		backoff.WithNotify(func(err error, d time.Duration) {
			b.logger.WarnContext(
				ctx, "generation attempt failed",
				"stage", req.Stage,
				"attempt", attempt,
				"retry_in", d,
				"error", err,
			)
			emit.OnChunk(fmt.Sprintf("Attempt %d failed (%v), retrying in %s\n", attempt, err, d))
		}),
	)
	if err != nil {
		return "", err
	}

	return text, nil
}

func (b *AgentBackend) call(ctx context.Context, prompt string) (string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", err
	}

	if b.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.Timeout)
		defer cancel()
	}

	text, err := b.complete(ctx, prompt)
	if errors.Is(err, context.DeadlineExceeded) {
		return "", fmt.Errorf("request timed out after %s: %w", b.cfg.Timeout, err)
	}
	return text, err
}

// ground runs the stage's search query. Search failures are logged and the
// stage continues without grounding.
func (b *AgentBackend) ground(ctx context.Context, req Request, emit progress.Emitter) []search.Result {
	if b.searcher == nil || req.SearchQuery == "" {
		return nil
	}

	emit.OnChunk(fmt.Sprintf("Using tool: Search the internet with query %q\n", req.SearchQuery))

	results, err := b.searcher.Search(ctx, req.SearchQuery)
	if err != nil {
		b.logger.WarnContext(
			ctx, "search failed",
			"stage", req.Stage,
			"query", req.SearchQuery,
			"error", err,
		)
		return nil
	}

	return results
}

func emitter(e progress.Emitter) progress.Emitter {
	if e == nil {
		return discardEmitter{}
	}
	return e
}

type discardEmitter struct{}

func (discardEmitter) OnChunk(string) {}
