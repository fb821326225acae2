// Package client is a thin HTTP client for queueserver's wire protocol.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/beapdb/beap/coordination"
	"github.com/beapdb/beap/protocol"
)

// Client talks to one queueserver instance over HTTP.
type Client struct {
	Logger *log.Logger

	debug bool
	cl    *http.Client
}

// New creates a Client. A nil *http.Client gets a zero-value default.
func New(cl *http.Client) *Client {
	if cl == nil {
		cl = &http.Client{}
	}
	return &Client{cl: cl}
}

// SetDebug enables or disables debug logging of requests and responses.
func (c *Client) SetDebug(v bool) {
	c.debug = v
}

func (c *Client) logger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.cl.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		return fmt.Errorf("%s %s: %w", method, url, coordination.ErrNotLeader)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: http code %d, %s", method, url, resp.StatusCode, b)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Push inserts value and returns the index it settled at.
func (c *Client) Push(ctx context.Context, addr string, value float64) (int, error) {
	if c.debug {
		c.logger().Printf("pushing %v to %s", value, addr)
	}

	var resp protocol.PushResponse
	if err := c.do(ctx, "POST", addr+"/push", protocol.PushRequest{Value: value}, &resp); err != nil {
		return 0, err
	}
	return resp.Index, nil
}

// Pop removes and returns the current maximum. ok is false if the queue
// was empty.
func (c *Client) Pop(ctx context.Context, addr string) (value float64, ok bool, err error) {
	var resp protocol.PopResponse
	if err := c.do(ctx, "POST", addr+"/pop", nil, &resp); err != nil {
		return 0, false, err
	}
	return resp.Value, !resp.Empty, nil
}

// Top returns the current maximum without removing it.
func (c *Client) Top(ctx context.Context, addr string) (value float64, ok bool, err error) {
	var resp protocol.TopResponse
	if err := c.do(ctx, "GET", addr+"/top", nil, &resp); err != nil {
		return 0, false, err
	}
	return resp.Value, !resp.Empty, nil
}

// Find reports the index of value, if present.
func (c *Client) Find(ctx context.Context, addr string, value float64) (index int, found bool, err error) {
	u := url.Values{}
	u.Add("value", strconv.FormatFloat(value, 'g', -1, 64))

	var resp protocol.FindResponse
	if err := c.do(ctx, "GET", addr+"/find?"+u.Encode(), nil, &resp); err != nil {
		return 0, false, err
	}
	return resp.Index, resp.Found, nil
}

// Erase removes one element equal to value, if present.
func (c *Client) Erase(ctx context.Context, addr string, value float64) (erased bool, err error) {
	var resp protocol.EraseResponse
	if err := c.do(ctx, "POST", addr+"/erase", protocol.EraseRequest{Value: value}, &resp); err != nil {
		return false, err
	}
	return resp.Erased, nil
}

// Stats returns the server's current size/capacity/row count.
func (c *Client) Stats(ctx context.Context, addr string) (protocol.StatsResponse, error) {
	var resp protocol.StatsResponse
	err := c.do(ctx, "GET", addr+"/stats", nil, &resp)
	return resp, err
}
