package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultAuthTimeout = 15 * time.Second

// Client wraps the external auth service (sign-in, sign-up, password
// reset). The service itself is an opaque collaborator; this client
// only shapes requests and rewrites its known error messages into
// friendlier ones.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a client for the auth service at baseURL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: defaultAuthTimeout},
	}
}

// SetHTTPClient overrides the default HTTP client (used by tests).
func (c *Client) SetHTTPClient(client *http.Client) {
	if client != nil {
		c.httpClient = client
	}
}

// AuthUser is the collaborator's view of an account.
type AuthUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	// Identities is empty when sign-up hits an existing account.
	Identities []json.RawMessage `json:"identities"`
}

// Session is a successful authentication result.
type Session struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}

// DisplayName extracts the profile name recorded at sign-up, falling
// back to the email's local part.
func (u AuthUser) DisplayName() string {
	if name, ok := u.UserMetadata["full_name"].(string); ok && name != "" {
		return name
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

type authErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e authErrorResponse) text() string {
	for _, candidate := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// SignIn authenticates with email and password.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{"email": email, "password": password}
	var session Session
	if err := c.post(ctx, "/token?grant_type=password", payload, &session); err != nil {
		return nil, friendlyAuthError(err)
	}
	return &session, nil
}

// SignUp registers a new account with a display name, triggering the
// collaborator's email verification flow.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"full_name": name},
	}
	var session Session
	if err := c.post(ctx, "/signup", payload, &session); err != nil {
		return nil, friendlyAuthError(err)
	}
	// A sign-up that reports no identities means the email already has
	// an account.
	if session.User.ID != "" && session.User.Identities != nil && len(session.User.Identities) == 0 {
		return nil, errors.New("This email is already registered. Please log in instead.")
	}
	return &session, nil
}

// RequestPasswordReset asks the collaborator to email reset
// instructions.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	if err := c.post(ctx, "/recover", payload, nil); err != nil {
		return friendlyAuthError(err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("auth request: encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("auth request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("auth request: read body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var decoded authErrorResponse
		if err := json.Unmarshal(body, &decoded); err == nil && decoded.text() != "" {
			return errors.New(decoded.text())
		}
		return fmt.Errorf("auth request failed with status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("auth request: decode response: %w", err)
	}
	return nil
}

// friendlyAuthError rewrites the collaborator's known error texts.
// Everything else passes through with its original message.
func friendlyAuthError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "Invalid login credentials") {
		return errors.New("Invalid password or email.")
	}
	if strings.Contains(msg, "already registered") || strings.Contains(msg, "unique constraint") {
		return errors.New("This email is already registered. Please log in instead.")
	}
	return err
}
