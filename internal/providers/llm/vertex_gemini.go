package llm

import (
	"context"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
)

// VertexGemini generates through the Vertex AI backend. It is the last
// provider in the fallback order and is only constructed when a GCP project is
// configured.
type VertexGemini struct {
	client *vertexgenai.Client
	models []string
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &VertexGemini{client: c, models: []string{modelName}}, nil
}

func (v *VertexGemini) Name() string { return "vertex" }

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Models(ctx context.Context) []string { return v.models }

func (v *VertexGemini) Generate(ctx context.Context, model string, req Request) (string, error) {
	m := v.client.GenerativeModel(model)
	m.SetTemperature(req.Temperature)
	m.SetMaxOutputTokens(int32(req.MaxTokens))
	if req.WantJSON {
		m.ResponseMIMEType = "application/json"
	}

	var b strings.Builder
	it := m.GenerateContentStream(ctx, vertexgenai.Text(req.Prompt))
	for {
		resp, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			if isRateLimited(err) {
				return "", &QuotaError{Provider: v.Name(), Err: err}
			}
			return "", err
		}

		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if t, ok := part.(vertexgenai.Text); ok && string(t) != "" {
					b.WriteString(string(t))
				}
			}
		}
	}
	return b.String(), nil
}
