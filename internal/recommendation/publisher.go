package recommendation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/reeltv/reeltv/internal/websocket"
)

// Publisher delivers a recommendation card to one destination.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, card Card) error
}

// Broadcaster is the part of the websocket hub a HubPublisher needs.
type Broadcaster interface {
	Broadcast(msgType string, payload any) error
}

// HubPublisher pushes cards to every connected websocket client.
type HubPublisher struct {
	hub Broadcaster
}

func NewHubPublisher(hub Broadcaster) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Name() string { return "websocket" }

func (p *HubPublisher) Publish(_ context.Context, card Card) error {
	return p.hub.Broadcast(websocket.TypeRecommendationPublished, card)
}

// WebhookPayload is the JSON body posted for each card.
type WebhookPayload struct {
	EventType string    `json:"eventType"`
	Card      Card      `json:"card"`
	Timestamp time.Time `json:"timestamp"`
}

// WebhookPublisher posts cards to an HTTP endpoint.
type WebhookPublisher struct {
	url        string
	headers    map[string]string
	secret     []byte
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewWebhookPublisher(url string, headers map[string]string, httpClient *http.Client, logger zerolog.Logger) *WebhookPublisher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookPublisher{
		url:        url,
		headers:    headers,
		httpClient: httpClient,
		logger:     logger.With().Str("publisher", "webhook").Logger(),
	}
}

// WithSecret makes every delivery carry a SignatureHeader token signed
// with secret.
func (p *WebhookPublisher) WithSecret(secret string) *WebhookPublisher {
	if secret != "" {
		p.secret = []byte(secret)
	}
	return p
}

func (p *WebhookPublisher) Name() string { return "webhook" }

func (p *WebhookPublisher) Publish(ctx context.Context, card Card) error {
	return p.send(ctx, WebhookPayload{
		EventType: websocket.TypeRecommendationPublished,
		Card:      card,
		Timestamp: time.Now().UTC(),
	})
}

func (p *WebhookPublisher) send(ctx context.Context, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range p.headers {
		req.Header.Set(key, value)
	}
	if p.secret != nil {
		token, err := signBody(p.secret, payload.Card.ID, body, payload.Timestamp)
		if err != nil {
			return fmt.Errorf("failed to sign payload: %w", err)
		}
		req.Header.Set(SignatureHeader, token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	p.logger.Debug().Int("workId", payload.Card.Work.ID).Msg("Recommendation posted")
	return nil
}
