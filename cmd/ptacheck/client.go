package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ptacheck/pkg/platform/httputil"
)

type client struct {
	base  string
	token string
	http  *http.Client
}

func newClient(opts *rootOptions) (*client, error) {
	timeout, err := time.ParseDuration(opts.timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid --timeout: %w", err)
	}
	if _, err := url.Parse(opts.server); err != nil {
		return nil, fmt.Errorf("invalid --server: %w", err)
	}
	return &client{
		base:  strings.TrimRight(opts.server, "/"),
		token: opts.token,
		http:  &http.Client{Timeout: timeout},
	}, nil
}

// do sends the request and returns the raw body for any 2xx reply. Other
// statuses come back as an error carrying the server's error description.
func (c *client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		var e httputil.ErrorResponse
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			if e.Description != "" {
				return raw, fmt.Errorf("server returned %d: %s: %s", resp.StatusCode, e.Error, e.Description)
			}
			return raw, fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
		}
		return raw, fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return raw, nil
}
