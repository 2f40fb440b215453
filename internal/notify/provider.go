package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

var ErrNotConfigured = errors.New("whatsapp api key not configured")

// Provider is the outbound-delivery integration point. Swappable: the real
// gateway client below, or the log-only simulator used until a provider
// contract is signed.
type Provider interface {
	Send(ctx context.Context, phone, message string) error
}

// WhatsAppClient posts to an external WhatsApp gateway.
type WhatsAppClient struct {
	apiKey   string
	endpoint string
	httpc    *http.Client
}

func NewWhatsAppClient() (*WhatsAppClient, error) {
	key := os.Getenv("WHATSAPP_API_KEY")
	if key == "" {
		return nil, ErrNotConfigured
	}
	endpoint := os.Getenv("WHATSAPP_API_ENDPOINT")
	if endpoint == "" {
		endpoint = "https://your-whatsapp-api-provider.com/send"
	}
	return &WhatsAppClient{
		apiKey:   key,
		endpoint: endpoint,
		httpc:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *WhatsAppClient) Send(ctx context.Context, phone, message string) error {
	payload := map[string]string{"to": phone, "message": message}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp send: %s", resp.Status)
	}
	return nil
}

// LogProvider simulates delivery by logging the message.
type LogProvider struct {
	Logf func(format string, args ...any)
}

func (p *LogProvider) Send(_ context.Context, phone, message string) error {
	logf := p.Logf
	if logf == nil {
		logf = log.Printf
	}
	logf("simulating whatsapp message to %s:\n%s", phone, message)
	return nil
}
