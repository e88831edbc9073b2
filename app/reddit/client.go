package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultBaseURL  = "https://oauth.reddit.com"
	defaultTokenURL = "https://www.reddit.com/api/v1/access_token"
)

// Credentials holds the platform account the client authenticates as.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string
}

// Client is an authenticated platform session. Each watcher owns its
// own Client; the underlying http.Client may be shared.
type Client struct {
	creds      Credentials
	httpClient *http.Client
	baseURL    string
	tokenURL   string

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a platform client using the password grant.
// The session token is fetched lazily on first use and refreshed
// before expiry.
func NewClient(creds Credentials, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		creds:      creds,
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		tokenURL:   defaultTokenURL,
	}
}

func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", c.creds.Username)
	form.Set("password", c.creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.creds.ClientID, c.creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.creds.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if token.Error != "" {
		return "", fmt.Errorf("authentication rejected: %s", token.Error)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token response missing access token")
	}

	c.token = token.AccessToken
	// Refresh a minute early to avoid racing the expiry.
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - time.Minute)

	return c.token, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.creds.UserAgent)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Session expired mid-flight; drop the cached token so the
		// next call re-authenticates.
		c.mu.Lock()
		c.token = ""
		c.mu.Unlock()
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

func (c *Client) listing(ctx context.Context, path string) (*listingEnvelope, error) {
	var envelope listingEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// NewSubmissions fetches the newest submissions in a subreddit,
// newest first.
func (c *Client) NewSubmissions(ctx context.Context, subreddit string, limit int) ([]Submission, error) {
	envelope, err := c.listing(ctx, fmt.Sprintf("/r/%s/new?limit=%d&raw_json=1", url.PathEscape(subreddit), limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions for r/%s: %w", subreddit, err)
	}

	submissions := make([]Submission, 0, len(envelope.Data.Children))
	for _, child := range envelope.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		var submission Submission
		if err := json.Unmarshal(child.Data, &submission); err != nil {
			return nil, fmt.Errorf("failed to parse submission: %w", err)
		}
		submissions = append(submissions, submission)
	}

	return submissions, nil
}

// Mentions fetches the newest inbox mentions of the bot account,
// newest first.
func (c *Client) Mentions(ctx context.Context, limit int) ([]Comment, error) {
	envelope, err := c.listing(ctx, fmt.Sprintf("/message/mentions?limit=%d&raw_json=1", limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mentions: %w", err)
	}

	return parseComments(envelope)
}

// UserComments fetches a user's newest comments, newest first.
func (c *Client) UserComments(ctx context.Context, username string, limit int) ([]Comment, error) {
	envelope, err := c.listing(ctx, fmt.Sprintf("/user/%s/comments?sort=new&limit=%d&raw_json=1", url.PathEscape(username), limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments for u/%s: %w", username, err)
	}

	return parseComments(envelope)
}

func parseComments(envelope *listingEnvelope) ([]Comment, error) {
	comments := make([]Comment, 0, len(envelope.Data.Children))
	for _, child := range envelope.Data.Children {
		if child.Kind != "t1" {
			continue
		}
		var comment Comment
		if err := json.Unmarshal(child.Data, &comment); err != nil {
			return nil, fmt.Errorf("failed to parse comment: %w", err)
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

// SubmissionByFullID looks up a single submission by its fullname
// (t3_<id>). Returns nil when the submission does not exist.
func (c *Client) SubmissionByFullID(ctx context.Context, fullID string) (*Submission, error) {
	envelope, err := c.listing(ctx, fmt.Sprintf("/api/info?id=%s&raw_json=1", url.QueryEscape(fullID)))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submission %s: %w", fullID, err)
	}

	for _, child := range envelope.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		var submission Submission
		if err := json.Unmarshal(child.Data, &submission); err != nil {
			return nil, fmt.Errorf("failed to parse submission: %w", err)
		}
		return &submission, nil
	}

	return nil, nil
}

// Reply posts a text reply to the thing named by parentFullID and
// returns the fullname of the created comment. A rejection is returned
// as a RateLimitError when it carries a retry-after directive,
// otherwise as an APIError.
func (c *Client) Reply(ctx context.Context, parentFullID, text string) (string, error) {
	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("thing_id", parentFullID)
	form.Set("text", text)

	var response commentResponse
	if err := c.do(ctx, http.MethodPost, "/api/comment", form, &response); err != nil {
		return "", err
	}

	if len(response.JSON.Errors) > 0 {
		return "", classifyAPIError(errorTriple(response.JSON.Errors[0]))
	}

	for _, child := range response.JSON.Data.Things {
		if child.Kind != "t1" {
			continue
		}
		var comment Comment
		if err := json.Unmarshal(child.Data, &comment); err != nil {
			return "", fmt.Errorf("failed to parse posted comment: %w", err)
		}
		return comment.Name, nil
	}

	return "", nil
}

// MarkRead marks an inbox item as read. Idempotent on the platform
// side; failures are the caller's to log, not retry.
func (c *Client) MarkRead(ctx context.Context, fullID string) error {
	form := url.Values{}
	form.Set("id", fullID)
	return c.do(ctx, http.MethodPost, "/api/read_message", form, nil)
}

// Delete removes a thing owned by the session account. Deleting an
// already-deleted thing is accepted by the platform as a no-op.
func (c *Client) Delete(ctx context.Context, fullID string) error {
	form := url.Values{}
	form.Set("id", fullID)
	return c.do(ctx, http.MethodPost, "/api/del", form, nil)
}

// errorTriple unpacks the [code, message, field] error arrays the
// comment endpoint reports.
func errorTriple(raw []any) (code, message, field string) {
	if len(raw) > 0 {
		code, _ = raw[0].(string)
	}
	if len(raw) > 1 {
		message, _ = raw[1].(string)
	}
	if len(raw) > 2 {
		field, _ = raw[2].(string)
	}
	return code, message, field
}
