package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmoura/eventgate/internal/common"
)

// HTTPClient implements Client over the server's JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a Client talking to the server at baseURL.
// httpClient may be nil, in which case http.DefaultClient's defaults apply.
func NewHTTPClient(baseURL string, httpClient *http.Client) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url scheme %q", u.Scheme)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}, nil
}

// do performs one JSON request. A nil body sends no payload; a nil out
// discards the response body. Non-2xx statuses are mapped onto the shared
// error taxonomy so callers can distinguish conflicts from real failures.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	msg := readErrorMessage(resp.Body)
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", common.ErrConflict, msg)
	default:
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)
	}
}

func readErrorMessage(r io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(raw))
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, User, error) {
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	req := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", req, &resp); err != nil {
		return "", User{}, err
	}
	return resp.Token, resp.User, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", "", nil, nil)
}

func (c *HTTPClient) GetEvents(ctx context.Context, token string) ([]Event, error) {
	var out []Event
	if err := c.do(ctx, http.MethodGet, "/events", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetAllUsers(ctx context.Context, token string) ([]User, error) {
	var out []User
	if err := c.do(ctx, http.MethodGet, "/users", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetAllSubscriptions(ctx context.Context, token string) ([]Subscription, error) {
	var out []Subscription
	if err := c.do(ctx, http.MethodGet, "/subscriptions", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, token, name, email, secret string) (User, error) {
	var out User
	req := map[string]string{"name": name, "email": email, "password": secret}
	if err := c.do(ctx, http.MethodPost, "/users", token, req, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

func (c *HTTPClient) GetUserByEmail(ctx context.Context, token, email string) (User, error) {
	var out User
	path := "/users/lookup?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

func (c *HTTPClient) CreateSubscription(ctx context.Context, token string, eventID, userID int64) (Subscription, error) {
	var out Subscription
	req := map[string]int64{"event_id": eventID, "user_id": userID}
	if err := c.do(ctx, http.MethodPost, "/subscriptions", token, req, &out); err != nil {
		return Subscription{}, err
	}
	return out, nil
}

func (c *HTTPClient) RegisterCheckin(ctx context.Context, token string, subscriptionID int64) error {
	path := fmt.Sprintf("/subscriptions/%d/checkin", subscriptionID)
	return c.do(ctx, http.MethodPost, path, token, nil, nil)
}
