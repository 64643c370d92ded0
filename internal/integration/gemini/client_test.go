package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

type generatorMock struct {
	resp  *genai.GenerateContentResponse
	err   error
	block bool
	parts []genai.Part
}

func (m *generatorMock) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	m.parts = parts
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.resp, m.err
}

func reply(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Role: "model", Parts: parts},
	}}}
}

func TestNewUsesDefaultModel(t *testing.T) {
	c, err := New(context.Background(), "test-key", "")
	require.NoError(t, err)
	defer c.Close() //nolint:errcheck
	assert.Equal(t, DefaultModel, c.Model())
}

func TestGenerateConcatenatesTextParts(t *testing.T) {
	gen := &generatorMock{resp: reply(genai.Text("SCORE: 85\n"), genai.Blob{MIMEType: "image/png"}, genai.Text("EXPLANATION: جيد"))}
	c := newClient(gen, DefaultModel)

	text, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "SCORE: 85\nEXPLANATION: جيد", text)
	assert.Equal(t, []genai.Part{genai.Text("prompt")}, gen.parts)
}

func TestGenerateEmptyReply(t *testing.T) {
	cases := map[string]*generatorMock{
		"no candidates": {resp: &genai.GenerateContentResponse{}},
		"nil response":  {},
		"blank text":    {resp: reply(genai.Text("  \n"))},
		"blocked":       {err: &genai.BlockedError{PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety}}},
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := newClient(gen, DefaultModel).Generate(context.Background(), "prompt")
			assert.ErrorIs(t, err, ErrEmptyReply)
		})
	}
}

func TestGenerateAPIError(t *testing.T) {
	gen := &generatorMock{err: &googleapi.Error{Code: 400, Message: "API key not valid"}}
	_, err := newClient(gen, DefaultModel).Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestGenerateUnavailable(t *testing.T) {
	for _, gen := range []*generatorMock{
		{err: &googleapi.Error{Code: 503, Message: "overloaded"}},
		{err: errors.New("dial tcp: connection refused")},
	} {
		_, err := newClient(gen, DefaultModel).Generate(context.Background(), "prompt")
		assert.ErrorIs(t, err, ErrUnavailable)
	}
}

func TestGenerateTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := newClient(&generatorMock{block: true}, DefaultModel).Generate(ctx, "prompt")
	assert.ErrorIs(t, err, ErrTimeout)
}
