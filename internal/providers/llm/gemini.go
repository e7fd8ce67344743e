package llm

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

var defaultGeminiModels = []string{"models/gemini-2.0-flash", "models/gemini-1.5-flash"}

// Gemini is the Gemini API backend (not Vertex). On first use it discovers the
// models advertising generateContent support and reorders its candidate list
// toward stable flash variants.
type Gemini struct {
	client *genai.Client
	log    *logrus.Logger

	configured []string

	resolveOnce sync.Once
	resolved    []string
}

func NewGemini(ctx context.Context, apiKey, model string, log *logrus.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	configured := defaultGeminiModels
	if m := strings.TrimSpace(model); m != "" {
		configured = []string{m}
	}
	return &Gemini{client: client, log: log, configured: configured}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Close() error { return nil }

func (g *Gemini) Models(ctx context.Context) []string {
	g.resolveOnce.Do(func() { g.resolved = g.resolveModels(ctx) })
	return g.resolved
}

// resolveModels merges discovered models ahead of the configured candidates.
// Configured names are expanded to both bare and "models/"-prefixed forms so a
// discovery miss never drops them.
func (g *Gemini) resolveModels(ctx context.Context) []string {
	var candidates []string
	for _, model := range g.configured {
		if model == "" {
			continue
		}
		base := strings.TrimPrefix(model, "models/")
		candidates = append(candidates, model, base, "models/"+base)
	}

	available, err := g.discover(ctx)
	if err != nil {
		if g.log != nil {
			g.log.WithError(err).Warn("gemini model discovery failed, using configured candidates")
		}
	} else {
		candidates = append(available, candidates...)
	}

	// De-duplicate case-insensitively while preserving order.
	seen := make(map[string]struct{})
	var merged []string
	for _, model := range candidates {
		key := strings.ToLower(strings.TrimSpace(model))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, strings.TrimSpace(model))
	}
	if len(merged) == 0 {
		return g.configured
	}
	return merged
}

func (g *Gemini) discover(ctx context.Context) ([]string, error) {
	var available []string
	for model, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, err
		}
		if model == nil || model.Name == "" {
			continue
		}
		for _, action := range model.SupportedActions {
			if action == "generateContent" {
				available = append(available, model.Name)
				break
			}
		}
	}
	sort.SliceStable(available, func(i, j int) bool {
		return geminiModelRank(available[i]) < geminiModelRank(available[j])
	})
	return available, nil
}

// geminiModelRank prefers stable flash variants over previews and everything else.
func geminiModelRank(name string) int {
	switch {
	case strings.Contains(name, "flash") && !strings.Contains(name, "preview") && !strings.Contains(name, "exp"):
		return 0
	case strings.Contains(name, "flash"):
		return 1
	default:
		return 2
	}
}

func (g *Gemini) Generate(ctx context.Context, model string, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.WantJSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), cfg)
	if err != nil {
		if isRateLimited(err) {
			return "", &QuotaError{Provider: g.Name(), Err: err}
		}
		return "", err
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}

func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "quota")
}
