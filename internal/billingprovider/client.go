// Package billingprovider реализует тонкий HTTP-клиент платёжной системы:
// создание клиента при регистрации и создание checkout-сессии подписки.
// Результат сессии для нас непрозрачен — клиентский код просто
// перенаправляет пользователя по её идентификатору.
package billingprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client — клиент API платёжной системы.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент платёжной системы.
func NewClient(apiKey, apiURL string) *Client {
	return &Client{
		apiKey:     apiKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("billing provider returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

// CreateCustomer заводит клиента в платёжной системе и возвращает его
// идентификатор. Вызывается один раз при регистрации пользователя.
func (c *Client) CreateCustomer(ctx context.Context, email string) (string, error) {
	const op = "billingprovider.CreateCustomer"

	req, err := c.newRequest(ctx, http.MethodPost, "/customers", CreateCustomerRequest{Email: email})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	var resp CreateCustomerResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return resp.ID, nil
}

// CreateCheckoutSession создаёт checkout-сессию подписки. В
// client_reference_id передаётся UID пользователя: по нему событие
// активации потом находит затронутую учётную запись.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CreateSessionRequest) (*CreateSessionResponse, error) {
	const op = "billingprovider.CreateCheckoutSession"

	req, err := c.newRequest(ctx, http.MethodPost, "/checkout/sessions", params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var resp CreateSessionResponse
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &resp, nil
}
