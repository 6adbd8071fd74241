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

	"github.com/dmitrijs2005/acadex/internal/client/models"
	"github.com/dmitrijs2005/acadex/internal/logging"
	"golang.org/x/time/rate"
)

const (
	pathRoles       = "admin/get-mobile-user-role"
	pathSearchUser  = "portal/search-user"
	pathLoadMembers = "portal/load-member"

	// Placeholders the backend expects for fields it fills in itself.
	placeholderString = "string"

	maxResponseBytes = 1 << 20
)

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
	log     logging.Logger
}

type HTTPOption func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client. Its Timeout is used as
// the per-request timeout.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *HTTPClient) { c.http = hc }
}

func WithLogger(l logging.Logger) HTTPOption {
	return func(c *HTTPClient) { c.log = l }
}

// WithRateLimit caps outgoing requests at rps with the given burst. A
// non-positive rps disables the limit.
func WithRateLimit(rps float64, burst int) HTTPOption {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewHTTPClient returns a REST client rooted at baseURL. Endpoint paths are
// resolved relative to it, so a missing trailing slash is added.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...HTTPOption) (*HTTPClient, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", u.Scheme)
	}

	c := &HTTPClient{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Inf, 0),
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Ping reports whether the backend answers at all. Any response below 500
// counts as reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

type rolesResponse struct {
	UserRole []models.RoleOption `json:"userRole"`
}

func (c *HTTPClient) FetchRoles(ctx context.Context) ([]models.RoleOption, error) {
	var out rolesResponse
	if err := c.do(ctx, http.MethodGet, pathRoles, nil, &out); err != nil {
		return nil, err
	}
	if out.UserRole == nil {
		return []models.RoleOption{}, nil
	}
	return out.UserRole, nil
}

type searchUserRequest struct {
	MobileNo string `json:"mobileNo"`
	RoleID   int    `json:"roleId"`
}

type searchUserResponse struct {
	Management []models.InstitutionCandidate `json:"management"`
}

func (c *HTTPClient) SearchUser(ctx context.Context, contact string, roleID int) ([]models.InstitutionCandidate, error) {
	var out searchUserResponse
	in := searchUserRequest{MobileNo: contact, RoleID: roleID}
	if err := c.do(ctx, http.MethodPost, pathSearchUser, in, &out); err != nil {
		return nil, err
	}
	if out.Management == nil {
		return []models.InstitutionCandidate{}, nil
	}
	return out.Management, nil
}

// loadMembersBody is the exact body portal/load-member accepts: category
// repeats the role id and the member fields are placeholders.
type loadMembersBody struct {
	InstitutionCode string `json:"institutionCode"`
	RoleID          int    `json:"roleId"`
	MemberID        int    `json:"memberId"`
	Category        int    `json:"category"`
	MemberName      string `json:"memberName"`
	MobileNo        string `json:"mobileNo"`
	PhotoPath       string `json:"photoPath"`
	IsActive        int    `json:"isActive"`
}

type loadMembersResponse struct {
	PortalMembers []models.MemberCandidate `json:"portalMembers"`
}

func (c *HTTPClient) LoadMembers(ctx context.Context, req LoadMembersRequest) ([]models.MemberCandidate, error) {
	in := loadMembersBody{
		InstitutionCode: req.InstitutionCode,
		RoleID:          req.RoleID,
		MemberID:        0,
		Category:        req.RoleID,
		MemberName:      placeholderString,
		MobileNo:        req.Contact,
		PhotoPath:       placeholderString,
		IsActive:        0,
	}
	var out loadMembersResponse
	if err := c.do(ctx, http.MethodPost, pathLoadMembers, in, &out); err != nil {
		return nil, err
	}
	if out.PortalMembers == nil {
		return []models.MemberCandidate{}, nil
	}
	return out.PortalMembers, nil
}

// envelope holds the status fields every backend response may carry.
type envelope struct {
	IsTransactionDone       *bool  `json:"isTransactionDone"`
	TransactionErrorMessage string `json:"transactionErrorMessage"`
	Message                 string `json:"message"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	endpoint := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug(ctx, "api request", "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "api call failed", "method", method, "path", path, "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read %s response: %w", ErrUnavailable, path, err)
	}
	c.log.Debug(ctx, "api response", "path", path, "status", resp.StatusCode)

	var env envelope
	envErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode}
		if envErr == nil {
			se.Message = env.Message
			if se.Message == "" {
				se.Message = env.TransactionErrorMessage
			}
		}
		return se
	}

	if envErr == nil && env.IsTransactionDone != nil && !*env.IsTransactionDone {
		return &TransactionError{Message: env.TransactionErrorMessage}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) && len(bytes.TrimSpace(raw)) == 0 {
			return fmt.Errorf("%w: empty %s response", ErrInvalidResponse, path)
		}
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidResponse, path, err)
	}
	return nil
}
