// Package gemini calls the Generative Language generateContent operation.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

var (
	// ErrTimeout means the call did not finish before the context deadline.
	ErrTimeout = errors.New("generation timed out")
	// ErrUnavailable means the service could not be reached.
	ErrUnavailable = errors.New("generation service unreachable")
	// ErrEmptyReply means the model returned no text.
	ErrEmptyReply = errors.New("model returned no text")
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client generates text for a single prompt.
type Client struct {
	sdk    *genai.Client
	model  contentGenerator
	name   string
	tracer trace.Tracer
}

// Option customises the underlying SDK client.
type Option = option.ClientOption

// New builds a client for apiKey. Extra options (endpoint, HTTP client) are
// appended after the key.
func New(ctx context.Context, apiKey, model string, opts ...Option) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}
	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	sdk, err := genai.NewClient(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create generative language client: %w", err)
	}
	c := newClient(sdk.GenerativeModel(model), model)
	c.sdk = sdk
	return c, nil
}

func newClient(model contentGenerator, name string) *Client {
	return &Client{model: model, name: name, tracer: otel.Tracer("orema-camp/gemini")}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.name }

// Close releases the SDK connection.
func (c *Client) Close() error {
	if c.sdk == nil {
		return nil
	}
	return c.sdk.Close()
}

// Generate sends prompt as one user turn and returns the concatenated text of
// the first candidate.
func (c *Client) Generate(ctx context.Context, prompt string) (text string, err error) {
	ctx, span := c.tracer.Start(ctx, "gemini.generateContent", trace.WithAttributes(
		attribute.String("gemini.model", c.name),
		attribute.Int("gemini.prompt_chars", len(prompt)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classify(ctx, err)
	}

	text = firstCandidateText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return fmt.Errorf("%w: %v", ErrEmptyReply, err)
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusServiceUnavailable || apiErr.Code == http.StatusBadGateway {
			return fmt.Errorf("%w: %s", ErrUnavailable, apiErr.Message)
		}
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.Code)
		}
		return fmt.Errorf("generation failed (%d): %s", apiErr.Code, msg)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
