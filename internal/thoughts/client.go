// Package thoughts is the HTTP client of the journal backend. It lists, reads
// and deletes thoughts and creates or updates them once their images are
// uploaded.
package thoughts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/moments/internal/common"
	"github.com/dmitrijs2005/moments/internal/models"
	"github.com/dmitrijs2005/moments/internal/netx"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), token: token, http: httpClient}
}

// List returns one page of thoughts, newest first. An empty tag lists all.
func (c *Client) List(ctx context.Context, page, pageSize int, tag string) (*models.PaginatedResponse[models.Thought], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(pageSize))
	if tag != "" {
		q.Set("tag", tag)
	}
	return call[models.PaginatedResponse[models.Thought]](ctx, c, http.MethodGet, "/moments?"+q.Encode(), nil)
}

// Get fetches a single thought.
func (c *Client) Get(ctx context.Context, id string) (*models.Thought, error) {
	return call[models.Thought](ctx, c, http.MethodGet, thoughtPath(id), nil)
}

// Create posts a new thought.
func (c *Client) Create(ctx context.Context, req models.CreateThoughtRequest) (*models.Thought, error) {
	return call[models.Thought](ctx, c, http.MethodPost, "/moments", req)
}

// Update replaces the fields set in req on thought id.
func (c *Client) Update(ctx context.Context, id string, req models.UpdateThoughtRequest) (*models.Thought, error) {
	return call[models.Thought](ctx, c, http.MethodPut, thoughtPath(id), req)
}

// Delete removes thought id. The response carries no data.
func (c *Client) Delete(ctx context.Context, id string) error {
	body, err := c.send(ctx, http.MethodDelete, thoughtPath(id), nil)
	if err != nil {
		return err
	}
	var env models.APIResponse[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %v", common.ErrDecoding, err)
	}
	if !env.IsSuccess() {
		return &common.ServerError{Code: env.Code, Body: env.Msg}
	}
	return nil
}

func thoughtPath(id string) string {
	return "/moments/" + url.PathEscape(id)
}

// call sends a request and unwraps the envelope, which must carry data.
func call[T any](ctx context.Context, c *Client, method, path string, payload any) (*T, error) {
	body, err := c.send(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}

	var env models.APIResponse[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecoding, err)
	}
	if !env.IsSuccess() || env.Data == nil {
		return nil, &common.ServerError{Code: env.Code, Body: env.Msg}
	}
	return env.Data, nil
}

// send performs the round trip and returns the raw response body. A nil
// payload sends no body.
func (c *Client) send(ctx context.Context, method, path string, payload any) ([]byte, error) {
	header := http.Header{}
	header.Set("Accept", "application/json")
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		header.Set("Content-Type", "application/json")
	}

	resp, err := netx.Do(ctx, c.http, netx.Request{Method: method, URL: c.baseURL + path, Header: header, Body: body})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Body, nil
}

func mapError(err error) error {
	var se *common.ServerError
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, serverMessage(se.Body))
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, serverMessage(se.Body))
	}
	return err
}

// serverMessage extracts msg from an error envelope, falling back to the raw
// body.
func serverMessage(body string) string {
	var env models.APIResponse[json.RawMessage]
	if err := json.Unmarshal([]byte(body), &env); err == nil && env.Msg != "" {
		return env.Msg
	}
	return strings.TrimSpace(body)
}
