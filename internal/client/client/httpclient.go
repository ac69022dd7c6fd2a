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
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/apiapp/internal/common"
)

// HTTPClient talks to the API over HTTP and keeps the access token of the
// last successful login.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) LoggedIn() bool {
	return c.currentToken() != ""
}

func (c *HTTPClient) Logout() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// do sends the request and decodes a 2xx JSON body into out, if out is not
// nil. Transport failures are reported as ErrUnavailable.
func (c *HTTPClient) do(req *http.Request, out any) error {
	if token := c.currentToken(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)
		if body.Detail == "" {
			body.Detail = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: body.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func pageQuery(skip, limit int) url.Values {
	q := url.Values{}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.get(ctx, "/healthz", nil, nil)
}

// Login exchanges the credentials for an access token and keeps it for
// later calls.
func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) error {
	form := url.Values{"username": {email}, "password": {string(password)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login/access-token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.Logout()

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(req, &tok); err != nil {
		return err
	}
	if tok.AccessToken == "" {
		return errors.New("empty access token")
	}

	c.mu.Lock()
	c.token = tok.AccessToken
	c.mu.Unlock()
	return nil
}

func (c *HTTPClient) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.get(ctx, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context, skip, limit int) ([]User, error) {
	var us []User
	if err := c.get(ctx, "/users/", pageQuery(skip, limit), &us); err != nil {
		return nil, err
	}
	return us, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := c.get(ctx, "/users/"+strconv.FormatInt(id, 10), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, email string, password []byte) (*User, error) {
	var u User
	in := map[string]string{"email": email, "password": string(password)}
	if err := c.postJSON(ctx, "/users/", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) ListItems(ctx context.Context, skip, limit int) ([]Item, error) {
	var is []Item
	if err := c.get(ctx, "/items/", pageQuery(skip, limit), &is); err != nil {
		return nil, err
	}
	return is, nil
}

func (c *HTTPClient) CreateItem(ctx context.Context, title, description string) (*Item, error) {
	return c.createItem(ctx, "/items/", title, description)
}

func (c *HTTPClient) CreateItemForUser(ctx context.Context, ownerID int64, title, description string) (*Item, error) {
	return c.createItem(ctx, "/users/"+strconv.FormatInt(ownerID, 10)+"/items/", title, description)
}

func (c *HTTPClient) createItem(ctx context.Context, path, title, description string) (*Item, error) {
	var it Item
	in := map[string]string{"title": title, "description": description}
	if err := c.postJSON(ctx, path, in, &it); err != nil {
		return nil, err
	}
	return &it, nil
}
