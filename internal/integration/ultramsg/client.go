// Package ultramsg sends WhatsApp chat messages through the UltraMsg HTTP API.
package ultramsg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AbdellahBM/orema-camp/internal/models"
	"github.com/AbdellahBM/orema-camp/pkg/middleware/requestid"
)

const (
	DefaultBaseURL = "https://api.ultramsg.com"

	msgSendFailed = "Failed to send WhatsApp message"
	msgUnknown    = "Unknown response from WhatsApp API"
)

// Config identifies the UltraMsg instance.
type Config struct {
	BaseURL    string
	InstanceID string
	Token      string
	Timeout    time.Duration
}

// Client posts chat messages to one UltraMsg instance.
type Client struct {
	cfg    Config
	http   *http.Client
	tracer trace.Tracer
}

// New builds a client. httpClient may be nil.
func New(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: httpClient, tracer: otel.Tracer("orema-camp/ultramsg")}
}

// Configured reports whether instance id and token are both set.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.InstanceID != "" && c.cfg.Token != ""
}

type chatRequest struct {
	Token string `json:"token"`
	To    string `json:"to"`
	Body  string `json:"body"`
}

// SendChat delivers body to the international number to. A non-nil error
// means the exchange itself failed; provider rejections are reported in the outcome.
func (c *Client) SendChat(ctx context.Context, to, body string) (outcome models.DeliveryOutcome, err error) {
	ctx, span := c.tracer.Start(ctx, "ultramsg.messages.chat", trace.WithAttributes(
		attribute.String("ultramsg.instance", c.cfg.InstanceID),
	))
	defer func() {
		span.SetAttributes(attribute.String("ultramsg.outcome", outcome.Status.String()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	payload, err := json.Marshal(chatRequest{Token: c.cfg.Token, To: to, Body: body})
	if err != nil {
		return outcome, fmt.Errorf("encode chat request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s/messages/chat", c.cfg.BaseURL, c.cfg.InstanceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return outcome, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return outcome, fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return outcome, fmt.Errorf("read chat response: %w", err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	return Decode(raw)
}

type chatResponse struct {
	Sent    json.RawMessage `json:"sent"`
	Message json.RawMessage `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// Decode maps a provider reply onto a DeliveryOutcome. It fails only when the
// body is not a JSON object.
func Decode(raw []byte) (models.DeliveryOutcome, error) {
	var r chatResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return models.DeliveryOutcome{}, fmt.Errorf("decode chat response: %w", err)
	}

	switch flag(r.Sent) {
	case "true":
		return models.DeliveryOutcome{Status: models.DeliverySent}, nil
	case "false":
		msg := text(r.Message)
		lower := strings.ToLower(msg)
		switch {
		case strings.Contains(lower, "invalid"):
			return models.DeliveryOutcome{Status: models.DeliveryInvalidNumber, Message: msg}, nil
		case strings.Contains(lower, "limit"):
			return models.DeliveryOutcome{Status: models.DeliveryLimitReached, Message: msg}, nil
		case msg == "":
			msg = msgSendFailed
		}
		return models.DeliveryOutcome{Status: models.DeliveryFailed, Message: msg}, nil
	}

	if e := text(r.Error); e != "" {
		if strings.Contains(e, "limit") {
			return models.DeliveryOutcome{Status: models.DeliveryLimitReached, Message: e}, nil
		}
		return models.DeliveryOutcome{Status: models.DeliveryFailed, Message: e}, nil
	}
	return models.DeliveryOutcome{Status: models.DeliveryFailed, Message: msgUnknown}, nil
}

// flag returns "true" or "false" for boolean or string booleans, "" otherwise.
func flag(raw json.RawMessage) string {
	switch strings.TrimSpace(string(raw)) {
	case "true", `"true"`:
		return "true"
	case "false", `"false"`:
		return "false"
	}
	return ""
}

// text renders a string field; other JSON values are kept in their encoded form.
func text(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}
