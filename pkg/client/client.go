// Package client implements the HTTP client for the remote offers
// service. All business logic (authentication, permission checks, offer
// state transitions, persistence) lives server-side; this client only
// shapes requests and decodes response envelopes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/offerdeck/offerdeck/pkg/log"
	"github.com/offerdeck/offerdeck/pkg/offers"
	"github.com/offerdeck/offerdeck/pkg/table"
)

// Options configures a Client.
type Options struct {
	// Tokens supplies the bearer credential attached to every request.
	Tokens oauth2.TokenSource
	// Timeout bounds each request. Zero means 30 seconds.
	Timeout time.Duration
	// OffersPath is the base path for offer mutations. Zero means
	// "/api/offer".
	OffersPath string
	// UserPath is the identity lookup path. Zero means "/api/user".
	UserPath string
}

// Client talks to the offers service.
type Client struct {
	baseURL    string
	offersPath string
	userPath   string
	tokens     oauth2.TokenSource
	httpClient *http.Client
	logger     *log.Logger
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	offersPath := opts.OffersPath
	if offersPath == "" {
		offersPath = "/api/offer"
	}
	userPath := opts.UserPath
	if userPath == "" {
		userPath = "/api/user"
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		offersPath: offersPath,
		userPath:   userPath,
		tokens:     opts.Tokens,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.ForComponent("client"),
	}
}

// APIError is a non-2xx response from the service. Message carries the
// server-reported reason when the body provided one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// IsUnauthorized reports whether err is an authorization failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// ServerMessage extracts the server-reported message from err, or returns
// fallback when none is present.
func ServerMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("resolving credential: %w", err)
		}
		token.SetAuthHeader(req)
	}

	c.logger.Debugf("%s %s", method, u)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			if payload.Message != "" {
				apiErr.Message = payload.Message
			} else {
				apiErr.Message = payload.Error
			}
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

type userEnvelope struct {
	Data struct {
		User offers.User `json:"user"`
	} `json:"data"`
}

type offersEnvelope struct {
	Data struct {
		Offers   []offers.Offer `json:"offers"`
		Metadata table.Metadata `json:"metadata"`
	} `json:"data"`
}

// CurrentUser performs the identity lookup.
func (c *Client) CurrentUser(ctx context.Context) (*offers.User, error) {
	var env userEnvelope
	if err := c.do(ctx, http.MethodGet, c.userPath, nil, nil, &env); err != nil {
		return nil, fmt.Errorf("fetching identity: %w", err)
	}
	if env.Data.User.ID == "" && env.Data.User.Role == "" {
		return nil, fmt.Errorf("identity lookup returned no user")
	}
	user := env.Data.User
	return &user, nil
}

// ListOffers fetches one server-paginated page of offers from path with
// the given query (built by table.BuildQuery).
func (c *Client) ListOffers(ctx context.Context, path string, query url.Values) (*table.Page[offers.Offer], error) {
	if path == "" {
		path = c.offersPath
	}
	var env offersEnvelope
	if err := c.do(ctx, http.MethodGet, path, query, nil, &env); err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}
	return &table.Page[offers.Offer]{
		Rows: env.Data.Offers,
		Meta: env.Data.Metadata,
	}, nil
}

// Source adapts the client to a table.Source for the given listing path.
// The path is supplied by the caller (typically resolved from the session
// role); the client never decides routing itself.
func (c *Client) Source(path string) table.Source[offers.Offer] {
	return table.SourceFunc[offers.Offer](func(ctx context.Context, query url.Values) (*table.Page[offers.Offer], error) {
		return c.ListOffers(ctx, path, query)
	})
}

// CreateOffer creates a new offer. The input must already be validated
// locally; the server still has the final word.
func (c *Client) CreateOffer(ctx context.Context, in offers.CreateOffer) error {
	return c.do(ctx, http.MethodPost, c.offersPath, nil, in, nil)
}

// AcceptOffer transitions the offer to ACCEPTED.
func (c *Client) AcceptOffer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, c.offersPath+"/accept/"+url.PathEscape(id), nil, struct{}{}, nil)
}

// RejectOffer transitions the offer to REJECTED.
func (c *Client) RejectOffer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, c.offersPath+"/reject/"+url.PathEscape(id), nil, struct{}{}, nil)
}

// ESignOffer records the caller's e-signature on the offer.
func (c *Client) ESignOffer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, c.offersPath+"/e-sign/"+url.PathEscape(id), nil, struct{}{}, nil)
}

type userEmailsEnvelope struct {
	Data struct {
		UserEmails []string `json:"userEmails"`
	} `json:"data"`
}

// ListUserEmails fetches the emails of every known user.
func (c *Client) ListUserEmails(ctx context.Context) ([]string, error) {
	var env userEmailsEnvelope
	if err := c.do(ctx, http.MethodGet, c.userPath+"/all", nil, nil, &env); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return env.Data.UserEmails, nil
}

// UpdatePermissions replaces the permission set of the user identified by
// email. The server enforces who may change permissions.
func (c *Client) UpdatePermissions(ctx context.Context, email string, permissions []string) error {
	if permissions == nil {
		permissions = []string{}
	}
	body := struct {
		Email      string   `json:"email"`
		Permission []string `json:"permission"`
	}{Email: email, Permission: permissions}
	return c.do(ctx, http.MethodPatch, c.userPath+"/permission/update", nil, body, nil)
}

// AddPermission registers a new named permission.
func (c *Client) AddPermission(ctx context.Context, name, description string) error {
	body := struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}{Name: name, Description: description}
	return c.do(ctx, http.MethodPost, c.userPath+"/permission/add", nil, body, nil)
}
