package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type attempt struct {
	provider string
	model    string
}

// fakeProvider answers from a (model -> response) table and records attempts.
type fakeProvider struct {
	name     string
	models   []string
	texts    map[string]string
	errs     map[string]error
	attempts *[]attempt
}

func (p *fakeProvider) Name() string                    { return p.name }
func (p *fakeProvider) Models(context.Context) []string { return p.models }
func (p *fakeProvider) Close() error                    { return nil }

func (p *fakeProvider) Generate(_ context.Context, model string, _ Request) (string, error) {
	*p.attempts = append(*p.attempts, attempt{provider: p.name, model: model})
	if err, ok := p.errs[model]; ok {
		return "", err
	}
	return p.texts[model], nil
}

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestGateway_FirstSuccessWins(t *testing.T) {
	var attempts []attempt
	a := &fakeProvider{name: "gemini", models: []string{"m1", "m2"}, texts: map[string]string{"m1": "hello"}, attempts: &attempts}
	b := &fakeProvider{name: "openai", models: []string{"m3"}, texts: map[string]string{"m3": "never"}, attempts: &attempts}
	gw := NewGateway(quietLog(), 0, a, b)

	res, err := gw.Generate(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Text)
	assert.Equal(t, "gemini", res.Provider)
	assert.Equal(t, "m1", res.Model)
	assert.Equal(t, []attempt{{"gemini", "m1"}}, attempts)
}

func TestGateway_TransientFailureAdvancesToNextModel(t *testing.T) {
	var attempts []attempt
	a := &fakeProvider{
		name:     "gemini",
		models:   []string{"m1", "m2"},
		errs:     map[string]error{"m1": errors.New("boom")},
		texts:    map[string]string{"m2": "recovered"},
		attempts: &attempts,
	}
	gw := NewGateway(quietLog(), 0, a)

	res, err := gw.Generate(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", res.Text)
	assert.Equal(t, "m2", res.Model)
	assert.Len(t, attempts, 2)
}

func TestGateway_QuotaSkipsRemainingModelsOfProvider(t *testing.T) {
	var attempts []attempt
	a := &fakeProvider{
		name:     "gemini",
		models:   []string{"m1", "m2"},
		errs:     map[string]error{"m1": &QuotaError{Provider: "gemini", Err: errors.New("429")}},
		texts:    map[string]string{"m2": "should be skipped"},
		attempts: &attempts,
	}
	b := &fakeProvider{name: "openai", models: []string{"m3"}, texts: map[string]string{"m3": "from openai"}, attempts: &attempts}
	gw := NewGateway(quietLog(), 0, a, b)

	res, err := gw.Generate(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "from openai", res.Text)
	assert.Equal(t, []attempt{{"gemini", "m1"}, {"openai", "m3"}}, attempts)
}

func TestGateway_EmptyTextCountsAsFailure(t *testing.T) {
	var attempts []attempt
	a := &fakeProvider{
		name:     "gemini",
		models:   []string{"m1", "m2"},
		texts:    map[string]string{"m1": "   ", "m2": "usable"},
		attempts: &attempts,
	}
	gw := NewGateway(quietLog(), 0, a)

	res, err := gw.Generate(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "usable", res.Text)
	assert.Len(t, attempts, 2)
}

func TestGateway_ExhaustionAggregatesFailures(t *testing.T) {
	var attempts []attempt
	a := &fakeProvider{
		name:     "gemini",
		models:   []string{"m1"},
		errs:     map[string]error{"m1": errors.New("boom")},
		attempts: &attempts,
	}
	b := &fakeProvider{
		name:     "openai",
		models:   []string{"m2"},
		errs:     map[string]error{"m2": errors.New("down")},
		attempts: &attempts,
	}
	gw := NewGateway(quietLog(), 0, a, b)

	_, err := gw.Generate(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Contains(t, err.Error(), "gemini/m1")
	assert.Contains(t, err.Error(), "openai/m2")
}

func TestGateway_NoProvidersIsDisabledAndExhausted(t *testing.T) {
	gw := NewGateway(quietLog(), 0)
	assert.False(t, gw.Enabled())

	_, err := gw.Generate(context.Background(), Request{Prompt: "hi"})
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestGateway_ProviderNamesAndModelCandidates(t *testing.T) {
	var attempts []attempt
	a := &fakeProvider{name: "gemini", models: []string{"m1", "m2"}, attempts: &attempts}
	b := &fakeProvider{name: "openai", models: []string{"m3"}, attempts: &attempts}
	gw := NewGateway(quietLog(), 0, a, b)

	assert.Equal(t, []string{"gemini", "openai"}, gw.ProviderNames())
	assert.Equal(t, []string{"m1", "m2"}, gw.ModelCandidates(context.Background(), "gemini"))
	assert.Nil(t, gw.ModelCandidates(context.Background(), "missing"))
}

func TestIsQuota(t *testing.T) {
	assert.True(t, IsQuota(&QuotaError{Provider: "gemini", Err: errors.New("429")}))
	assert.False(t, IsQuota(errors.New("429")))
}
