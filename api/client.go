package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const defaultTimeout = 30 * time.Second

// Client is a typed client for the assistant backend. It is stateless
// apart from the bearer token it was constructed with; a new client is
// built whenever the session changes.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New builds a client for the given base URL. An empty token yields an
// unauthenticated client, usable only for the login entry point.
func New(baseURL, token string) *Client {
	httpc := &http.Client{Timeout: defaultTimeout}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		httpc = oauth2.NewClient(context.Background(), src)
		httpc.Timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}
}

// LoginURL is the browser entry point for the OAuth handoff. The
// backend redirects back with the bearer token once the provider
// finishes.
func (c *Client) LoginURL() string {
	return c.baseURL + "/auth/login"
}

// Me validates the session token and returns the user profile.
func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &u)
	return u, err
}

// Emails returns the analyzed email list, most recent first.
func (c *Client) Emails(ctx context.Context) ([]Email, error) {
	var emails []Email
	err := c.do(ctx, http.MethodGet, "/api/emails", nil, &emails)
	return emails, err
}

// Sync asks the backend to pull and analyze new mail. The returned
// count is how many new emails landed.
func (c *Client) Sync(ctx context.Context) (SyncResult, error) {
	var res SyncResult
	err := c.do(ctx, http.MethodPost, "/api/sync", nil, &res)
	return res, err
}

// ResetEmails wipes the analyzed email store. Destructive; callers
// must confirm with the user first.
func (c *Client) ResetEmails(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/admin/reset-emails", nil, nil)
}

func (c *Client) Meetings(ctx context.Context) ([]Meeting, error) {
	var meetings []Meeting
	err := c.do(ctx, http.MethodGet, "/api/meetings", nil, &meetings)
	return meetings, err
}

func (c *Client) DeleteMeeting(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/meetings/%d", id), nil, nil)
}

// ChatHistory returns the persisted assistant transcript in arrival
// order.
func (c *Client) ChatHistory(ctx context.Context) ([]ChatMessage, error) {
	var history []ChatMessage
	err := c.do(ctx, http.MethodGet, "/api/chat/history", nil, &history)
	return history, err
}

func (c *Client) ClearChatHistory(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/chat/history", nil, nil)
}

// Chat sends one user turn to the meeting agent. The history is the
// transcript as it stood before the new message.
func (c *Client) Chat(ctx context.Context, message string, history []ChatMessage) (string, error) {
	req := struct {
		Message             string        `json:"message"`
		ConversationHistory []ChatMessage `json:"conversation_history"`
	}{Message: message, ConversationHistory: history}
	var res struct {
		Response string `json:"response"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/meeting-agent/chat", req, &res); err != nil {
		return "", err
	}
	return res.Response, nil
}

// Rewrite reworks draft text in the given style.
func (c *Client) Rewrite(ctx context.Context, text string, style RewriteStyle) (string, error) {
	req := struct {
		Text  string       `json:"text"`
		Style RewriteStyle `json:"style"`
	}{Text: text, Style: style}
	var res struct {
		Result string `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/agent/rewrite", req, &res); err != nil {
		return "", err
	}
	return res.Result, nil
}

func (c *Client) SendEmail(ctx context.Context, to, subject, body string) error {
	req := struct {
		To      string `json:"to"`
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}{To: to, Subject: subject, Body: body}
	return c.do(ctx, http.MethodPost, "/api/send-email", req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// readDetail extracts the backend's {"detail": "..."} error message.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 8<<10))
	if err != nil {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Printf("API: unparseable error body: %s", raw)
		return ""
	}
	return payload.Detail
}
