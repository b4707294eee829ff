// Package remote talks to the annotation service REST API.
package remote

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

	"video-annotate/internal/dto"
	"video-annotate/pkg/annotate"
)

// Client implements annotate.Remote over HTTP.
type Client struct {
	BaseURL  string
	SharedBy string
	HTTP     *http.Client
}

var _ annotate.Remote = &Client{}

type Option func(*Client)

// WithSharedBy sets the display name sent with shares whose context carries
// no user (see annotate.WithUser).
func WithSharedBy(userName string) Option {
	return func(c *Client) { c.SharedBy = userName }
}

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.HTTP = client }
}

// NewClient targets baseURL, e.g. "http://localhost:3000/api/annotation/v1".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Matching(ctx context.Context, userName string) ([]annotate.RemoteAnnotation, error) {
	var env dto.Envelope[[]dto.MatchingAnnotationResponse]
	if err := c.do(ctx, http.MethodGet, "/matching/"+url.PathEscape(userName), nil, &env); err != nil {
		return nil, err
	}

	out := make([]annotate.RemoteAnnotation, 0, len(env.Data))
	for _, a := range env.Data {
		out = append(out, annotate.RemoteAnnotation{ID: a.Id, URL: a.Url, Content: a.Content, Time: a.Time})
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Share(ctx context.Context, resourceID string, annotation annotate.Annotation, targetUser string) error {
	req := dto.ShareAnnotationRequest{
		Annotation: dto.AnnotationPayload{
			Url:     resourceID,
			Content: annotation.Content,
			Time:    annotation.Time,
		},
		TargetUser: targetUser,
		SharedBy:   c.SharedBy,
	}
	if userName, ok := annotate.UserFromContext(ctx); ok {
		req.SharedBy = userName
	}
	return c.do(ctx, http.MethodPost, "/share", req, nil)
}

// do sends one request. Transport failures and non-2xx answers wrap
// annotate.ErrNetwork, a 404 maps to annotate.ErrNotFound.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", annotate.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s %s", annotate.ErrNotFound, method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: status %d: %s", annotate.ErrNetwork, method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", annotate.ErrNetwork, method, path, err)
	}
	return nil
}
