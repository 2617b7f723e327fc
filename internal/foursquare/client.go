package foursquare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	applog "github.com/nikdoof/foursquare-feeds/internal/log"
)

const (
	defaultBaseURL = "https://api.foursquare.com/v2"

	// apiVersion is the Foursquare versioning date sent as the v parameter.
	apiVersion = "20180323"

	// PageLimit is the maximum page size the checkins endpoint accepts.
	PageLimit = 250
)

// APIError is a non-OK response from the Foursquare API.
type APIError struct {
	Code   int
	Type   string
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("foursquare api error %d (%s): %s", e.Code, e.Type, e.Detail)
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// Client talks to the Foursquare v2 API on behalf of a single user.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// NewClient creates a Client authenticated with the given OAuth token.
func NewClient(accessToken string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     defaultBaseURL,
		accessToken: accessToken,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Every response wraps the payload in a meta envelope; meta.code carries the
// effective status even when HTTP transport succeeded.
type apiEnvelope struct {
	Meta struct {
		Code        int    `json:"code"`
		ErrorType   string `json:"errorType"`
		ErrorDetail string `json:"errorDetail"`
	} `json:"meta"`
	Response json.RawMessage `json:"response"`
}

// CheckinsPage is one page of the checkin listing, with the total count the
// server reports for the whole history.
type CheckinsPage struct {
	Count int       `json:"count"`
	Items []Checkin `json:"items"`
}

type checkinsResponse struct {
	Checkins CheckinsPage `json:"checkins"`
}

type userResponse struct {
	User User `json:"user"`
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("oauth_token", c.accessToken)
	params.Set("v", apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected response: %s", resp.Status)
		}
		return fmt.Errorf("decoding response: %w", err)
	}
	if env.Meta.Code != http.StatusOK {
		return &APIError{Code: env.Meta.Code, Type: env.Meta.ErrorType, Detail: env.Meta.ErrorDetail}
	}

	return json.Unmarshal(env.Response, out)
}

func (c *Client) checkinsPage(ctx context.Context, offset int) (CheckinsPage, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(PageLimit))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("sort", "newestfirst")

	var out checkinsResponse
	if err := c.get(ctx, "/users/self/checkins", params, &out); err != nil {
		return CheckinsPage{}, fmt.Errorf("getting checkins with offset of %d: %w", offset, err)
	}

	applog.Debug("got checkins page from API",
		"offset", offset,
		"total", out.Checkins.Count,
		"items", len(out.Checkins.Items),
	)
	return out.Checkins, nil
}

// CheckinsRecent makes one request for the most recent page of checkins,
// newest first.
func (c *Client) CheckinsRecent(ctx context.Context) ([]Checkin, error) {
	page, err := c.checkinsPage(ctx, 0)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// CheckinsAll pages through the entire checkin history, 250 at a time, until
// the cumulative fetch reaches the total the first response reported. Pages
// are concatenated in request order.
func (c *Client) CheckinsAll(ctx context.Context) ([]Checkin, error) {
	applog.Debug("fetching all checkins")

	var checkins []Checkin
	offset := 0
	total := -1

	for {
		page, err := c.checkinsPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		if total < 0 {
			total = page.Count
			applog.Debug("checkins to fetch", "total", total)
		}

		checkins = append(checkins, page.Items...)
		offset += PageLimit

		if offset >= total || len(page.Items) == 0 {
			break
		}
	}

	return checkins, nil
}

// CurrentUser returns the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var out userResponse
	if err := c.get(ctx, "/users/self", url.Values{}, &out); err != nil {
		return User{}, fmt.Errorf("getting user: %w", err)
	}
	return out.User, nil
}
