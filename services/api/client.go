// Package apisvc is the HTTP client of the LMS REST backend.
package apisvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/store"
)

// maximum size of a response body read from the backend
const maxBodySize = 10 << 20

type Options struct {
	BaseURL string
	// Token is the session's bearer token; requests are anonymous without it.
	Token   string
	Timeout time.Duration
	// Paths overrides the resource path of an entity type; the default is "/{type}".
	Paths map[entity.Type]string
}

// Error is a non-2xx response from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

type Client struct {
	base  *url.URL
	http  *http.Client
	paths map[entity.Type]string
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing base url")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("invalid base url %q", opts.BaseURL)
	}

	httpClient := &http.Client{}
	if opts.Token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}))
	}
	httpClient.Timeout = opts.Timeout

	return &Client{base: base, http: httpClient, paths: opts.Paths}, nil
}

func (c *Client) path(t entity.Type) string {
	if p, ok := c.paths[t]; ok {
		return "/" + strings.Trim(p, "/")
	}
	return "/" + string(t)
}

// Endpoint returns the backend resource of t.
func (c *Client) Endpoint(t entity.Type) store.Endpoint {
	return &endpoint{client: c, path: c.path(t)}
}

// Endpoints builds the per-type endpoint table the store is constructed with.
func (c *Client) Endpoints(types []entity.Type) map[entity.Type]store.Endpoint {
	eps := make(map[entity.Type]store.Endpoint, len(types))
	for _, t := range types {
		eps[t] = c.Endpoint(t)
	}
	return eps
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "encoding payload")
		}
		body = bytes.NewReader(data)
	}

	// path arrives escaped; keep RawPath so escaped slashes in ids survive
	u := *c.base
	raw := c.base.EscapedPath() + path
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid path %q", path)
	}
	u.Path, u.RawPath = unescaped, raw
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}
	return data, nil
}

// errorMessage extracts a human-readable message from an error response body.
func errorMessage(status int, data []byte) string {
	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err == nil && len(body) > 0 {
		for _, key := range []string{"error", "detail", "message"} {
			if msg, ok := body[key].(string); ok && msg != "" {
				return msg
			}
		}

		// field errors, eg. {"email": ["Enter a valid email address."]}
		keys := make([]string, 0, len(body))
		for k := range body {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch v := body[k].(type) {
			case string:
				return k + ": " + v
			case []interface{}:
				if len(v) > 0 {
					if msg, ok := v[0].(string); ok {
						return k + ": " + msg
					}
				}
			}
		}
	}
	return http.StatusText(status)
}

type endpoint struct {
	client *Client
	path   string
}

var _ store.Endpoint = (*endpoint)(nil)

func (ep *endpoint) List(ctx context.Context) (json.RawMessage, error) {
	data, err := ep.client.do(ctx, http.MethodGet, ep.path, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

func (ep *endpoint) Create(ctx context.Context, payload map[string]string) error {
	if payload == nil {
		payload = map[string]string{}
	}
	_, err := ep.client.do(ctx, http.MethodPost, ep.path, payload)
	return err
}

func (ep *endpoint) Delete(ctx context.Context, id string) error {
	_, err := ep.client.do(ctx, http.MethodDelete, ep.path+"/"+url.PathEscape(id), nil)
	return err
}
