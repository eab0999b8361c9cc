// Package rest is the single decode point between the client and the
// account API. Every endpoint resolves to exactly one of three outcomes:
// a decoded success body, a *CallError carrying the server's error
// envelope, or a *NetworkError when no response was obtained. Nothing
// downstream ever touches a raw HTTP response.
//
// Credentials ride on a cookie jar owned by the injected http.Client,
// mirroring browser-managed session cookies.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Client issues JSON calls against one API base URL.
type Client struct {
	base      string
	hc        *http.Client
	userAgent string
	log       *log.Logger
}

// New returns a Client rooted at base. The http.Client must carry a
// cookie jar when the API authenticates via session cookies.
func New(base string, hc *http.Client, userAgent string, logger *log.Logger) *Client {
	return &Client{
		base:      strings.TrimRight(base, "/"),
		hc:        hc,
		userAgent: userAgent,
		log:       logger,
	}
}

// Get issues a GET and decodes the success body into out when out is
// non-nil.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the success body into
// out when out is non-nil. A nil body posts an empty JSON object so the
// server's schema loaders always see a document.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Delete issues a DELETE and decodes the success body into out when out
// is non-nil.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if method == http.MethodPost {
		if body == nil {
			body = struct{}{}
		}
		encoded, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Err: err}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return &NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("path", path).Debug("transport failure")
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		env := DecodeEnvelope(raw)
		c.log.WithFields(log.Fields{
			"path":   path,
			"status": resp.StatusCode,
			"key":    env.MessageKey(),
		}).Debug("call rejected")
		return &CallError{Status: resp.StatusCode, Envelope: env}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// A 200 with an undecodable body gives the caller nothing to act
		// on, which is indistinguishable from not having heard back.
		return &NetworkError{Err: err}
	}
	return nil
}
