// Package netx performs single HTTP round trips and maps their failures onto
// common.NetworkError and common.ServerError.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/moments/internal/buildinfo"
	"github.com/dmitrijs2005/moments/internal/common"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 64 << 10

type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Do sends req once. Any 2xx status succeeds. Other statuses return the
// response together with a *common.ServerError; transport failures return a
// *common.NetworkError. There are no retries.
func Do(ctx context.Context, client *http.Client, req Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidURL, err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", buildinfo.UserAgent())
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, &common.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		out.Body = b
		return out, &common.ServerError{Code: resp.StatusCode, Body: string(b)}
	}

	out.Body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, &common.NetworkError{Err: err}
	}
	return out, nil
}

// Put uploads payload with the given headers and returns the response.
func Put(ctx context.Context, client *http.Client, url string, header http.Header, payload []byte) (*Response, error) {
	return Do(ctx, client, Request{Method: http.MethodPut, URL: url, Header: header, Body: payload})
}
