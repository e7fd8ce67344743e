package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultAttemptTimeout = 25 * time.Second

// Gateway fans a generation request across the configured providers in a fixed
// preference order. Attempts are strictly sequential: worst-case latency is
// bounded by providers x models x attempt timeout, and ordering stays
// deterministic for tests.
type Gateway struct {
	providers      []Provider
	attemptTimeout time.Duration
	log            *logrus.Logger
}

func NewGateway(log *logrus.Logger, attemptTimeout time.Duration, providers ...Provider) *Gateway {
	if attemptTimeout <= 0 {
		attemptTimeout = defaultAttemptTimeout
	}
	return &Gateway{providers: providers, attemptTimeout: attemptTimeout, log: log}
}

// Enabled reports whether at least one provider is configured.
func (g *Gateway) Enabled() bool { return len(g.providers) > 0 }

// ProviderNames returns the configured fallback order.
func (g *Gateway) ProviderNames() []string {
	names := make([]string, 0, len(g.providers))
	for _, p := range g.providers {
		names = append(names, p.Name())
	}
	return names
}

// ModelCandidates returns the model preference list of the named provider.
func (g *Gateway) ModelCandidates(ctx context.Context, provider string) []string {
	for _, p := range g.providers {
		if p.Name() == provider {
			return p.Models(ctx)
		}
	}
	return nil
}

// Generate tries every (provider, model) pair in order and returns the first
// non-empty text. A transient failure advances to the next model; a quota
// failure skips the provider's remaining models. ErrExhausted is returned only
// after every pair has been tried.
func (g *Gateway) Generate(ctx context.Context, req Request) (Result, error) {
	var failures []string

	for _, p := range g.providers {
		models := p.Models(ctx)
	modelLoop:
		for _, model := range models {
			attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
			text, err := p.Generate(attemptCtx, model, req)
			cancel()

			switch {
			case err == nil && strings.TrimSpace(text) != "":
				return Result{Text: strings.TrimSpace(text), Provider: p.Name(), Model: model}, nil
			case err == nil:
				failures = append(failures, fmt.Sprintf("%s/%s: empty response", p.Name(), model))
			case IsQuota(err):
				failures = append(failures, fmt.Sprintf("%s/%s: %v", p.Name(), model, err))
				if g.log != nil {
					g.log.WithFields(logrus.Fields{"provider": p.Name(), "model": model}).
						Warn("provider quota exceeded, skipping remaining models")
				}
				break modelLoop
			default:
				failures = append(failures, fmt.Sprintf("%s/%s: %v", p.Name(), model, err))
			}

			if ctx.Err() != nil {
				return Result{}, fmt.Errorf("%w: %v", ErrExhausted, ctx.Err())
			}
		}
	}

	if len(failures) == 0 {
		return Result{}, fmt.Errorf("%w: no provider configured", ErrExhausted)
	}
	return Result{}, fmt.Errorf("%w: %s", ErrExhausted, strings.Join(failures, "; "))
}

// Close releases every provider's underlying client.
func (g *Gateway) Close() error {
	var first error
	for _, p := range g.providers {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
