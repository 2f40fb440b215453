package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPCreator invokes a remote register-client-user function instead of the
// in-process service. Used when account creation runs in a separate trusted
// deployment holding the privileged credentials.
type HTTPCreator struct {
	baseURL string
	httpc   *http.Client
}

func NewHTTPCreator(baseURL string) *HTTPCreator {
	return &HTTPCreator{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPCreator) Create(ctx context.Context, email, password, firstName, lastName string) (string, error) {
	payload := map[string]string{
		"email":      email,
		"password":   password,
		"first_name": firstName,
		"last_name":  lastName,
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/functions/register-client-user", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		UserID string `json:"userId"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("register-client-user: decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if body.Error != "" {
			return "", errors.New(body.Error)
		}
		return "", fmt.Errorf("register-client-user: %s", resp.Status)
	}
	return body.UserID, nil
}
