package llm

import (
	"context"
	"errors"
	"fmt"
)

// Request carries one generation call through the gateway.
type Request struct {
	Prompt      string
	Temperature float32
	MaxTokens   int
	WantJSON    bool // ask the backend for a JSON response where supported
}

// Result is the usable output of a generation attempt.
type Result struct {
	Text     string
	Provider string
	Model    string
}

// Provider is one text-generation backend. Models returns the candidate model
// names in preference order; Generate runs a single (model, request) attempt.
type Provider interface {
	Name() string
	Models(ctx context.Context) []string
	Generate(ctx context.Context, model string, req Request) (string, error)
	Close() error
}

// ErrExhausted is returned only after every configured provider has been tried.
var ErrExhausted = errors.New("all providers exhausted")

// QuotaError marks a rate-limit/quota failure. The gateway treats the provider
// as permanently failed for the current call and moves on to the next one.
type QuotaError struct {
	Provider string
	Err      error
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s quota exceeded: %v", e.Provider, e.Err)
}

func (e *QuotaError) Unwrap() error { return e.Err }

// IsQuota reports whether err is a quota/rate-limit failure.
func IsQuota(err error) bool {
	var qe *QuotaError
	return errors.As(err, &qe)
}
