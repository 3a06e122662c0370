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

	"github.com/google/uuid"

	"github.com/dmitrijs2005/mitteie/internal/client/models"
	"github.com/dmitrijs2005/mitteie/internal/common"
	"github.com/dmitrijs2005/mitteie/internal/logging"
)

const (
	defaultTimeout  = 30 * time.Second
	maxErrorBodyLen = 4 << 10
)

// HTTPClient talks to the inventory server over HTTP/JSON. Credentials
// travel as cookies, so the underlying http.Client must carry a jar for
// the session to survive between calls.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logging.Logger
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client (jar, transport, timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithLogger sets the request logger.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient returns a client for the server at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the server root the client was built with.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

// ExchangeSession trades a one-time login token for a session cookie. The
// token is sent in the body only.
func (c *HTTPClient) ExchangeSession(ctx context.Context, sessionID string) (models.User, error) {
	var u models.User
	body := map[string]string{"session_id": sessionID}
	err := c.do(ctx, http.MethodPost, "/api/auth/session", body, &u)
	return u, err
}

func (c *HTTPClient) Me(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u)
	return u, err
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (models.User, error) {
	var u models.User
	err := c.doRaw(ctx, http.MethodPost, "/api/auth/login", credentialsBody(email, "", password, false), &u)
	return u, err
}

func (c *HTTPClient) Signup(ctx context.Context, email, name string, password []byte) (models.User, error) {
	var u models.User
	err := c.doRaw(ctx, http.MethodPost, "/api/auth/signup", credentialsBody(email, name, password, true), &u)
	return u, err
}

func (c *HTTPClient) ListItems(ctx context.Context) ([]models.Item, error) {
	items := []models.Item{}
	if err := c.do(ctx, http.MethodGet, "/api/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) GetItem(ctx context.Context, id string) (models.Item, error) {
	var it models.Item
	err := c.do(ctx, http.MethodGet, "/api/items/"+url.PathEscape(id), nil, &it)
	return it, err
}

func (c *HTTPClient) CreateItem(ctx context.Context, in models.ItemInput) (models.Item, error) {
	var it models.Item
	err := c.do(ctx, http.MethodPost, "/api/items", wireInput(in), &it)
	return it, err
}

func (c *HTTPClient) UpdateItem(ctx context.Context, id string, in models.ItemInput) (models.Item, error) {
	var it models.Item
	err := c.do(ctx, http.MethodPut, "/api/items/"+url.PathEscape(id), wireInput(in), &it)
	return it, err
}

func (c *HTTPClient) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/items/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) CreateCheckout(ctx context.Context, req models.CheckoutRequest) (models.CheckoutSession, error) {
	var s models.CheckoutSession
	err := c.do(ctx, http.MethodPost, "/api/payments/checkout", req, &s)
	return s, err
}

func (c *HTTPClient) PaymentStatus(ctx context.Context, sessionID string) (models.PaymentStatus, error) {
	var s models.PaymentStatus
	err := c.do(ctx, http.MethodGet, "/api/payments/status/"+url.PathEscape(sessionID), nil, &s)
	return s, err
}

func (c *HTTPClient) UploadSignature(ctx context.Context, resourceType string) (models.UploadSignature, error) {
	var s models.UploadSignature
	q := url.Values{"resource_type": []string{resourceType}}
	err := c.do(ctx, http.MethodGet, "/api/cloudinary/signature?"+q.Encode(), nil, &s)
	return s, err
}

// wireInput sends an empty attachment list as [] since the server rejects
// null there.
func wireInput(in models.ItemInput) models.ItemInput {
	if in.Attachments == nil {
		in.Attachments = []string{}
	}
	return in
}

// credentialsBody renders the login/signup body straight from the password
// bytes so the caller can wipe both afterwards.
func credentialsBody(email, name string, password []byte, withName bool) []byte {
	var buf bytes.Buffer
	e, _ := json.Marshal(email)
	buf.WriteString(`{"email":`)
	buf.Write(e)
	if withName {
		n, _ := json.Marshal(name)
		buf.WriteString(`,"name":`)
		buf.Write(n)
	}
	buf.WriteString(`,"password":`)
	p, _ := json.Marshal(string(password))
	buf.Write(p)
	common.Wipe(p)
	buf.WriteString(`}`)
	return buf.Bytes()
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = b
	}
	return c.doRaw(ctx, method, path, payload, out)
}

func (c *HTTPClient) doRaw(ctx context.Context, method, path string, payload []byte, out any) error {
	defer common.Wipe(payload)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, reqID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// only the path is logged; query strings may carry identifiers
	logPath := path
	if i := strings.IndexByte(logPath, '?'); i >= 0 {
		logPath = logPath[:i]
	}
	log := c.log.With("method", method, "path", logPath, "request_id", reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", errors.Unwrap(err))
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	log.Debug(ctx, "request done", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from server: %w", err)
	}
	return nil
}

// readDetail extracts the "detail" member of an error body, whatever its
// shape, falling back to the raw text.
func readDetail(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBodyLen))
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(b, &env); err != nil || len(env.Detail) == 0 {
		return strings.TrimSpace(string(b))
	}
	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return s
	}
	return string(env.Detail)
}
