package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPNotifier invokes a remote send-whatsapp-message function instead of
// the in-process dispatcher.
type HTTPNotifier struct {
	baseURL string
	httpc   *http.Client
}

func NewHTTPNotifier(baseURL string) *HTTPNotifier {
	return &HTTPNotifier{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPNotifier) Send(ctx context.Context, name, phone, dashboardLink, messageType string) error {
	payload := map[string]string{
		"name":                name,
		"phone":               phone,
		"clientDashboardLink": dashboardLink,
		"messageType":         messageType,
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/functions/send-whatsapp-message", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&body) == nil && body.Error != "" {
			return errors.New(body.Error)
		}
		return fmt.Errorf("send-whatsapp-message: %s", resp.Status)
	}
	return nil
}
