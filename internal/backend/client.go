package backend

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

	"github.com/angelmondragon/packfinderz-configurator/internal/catalog"
	"github.com/angelmondragon/packfinderz-configurator/internal/submission"
	"github.com/angelmondragon/packfinderz-configurator/pkg/config"
	"github.com/angelmondragon/packfinderz-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-configurator/pkg/errors"
)

// HTTPClient matches the subset of http.Client used by Client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the catalog and product REST API. It serves both the
// attribute lookups and the single create-product call.
type Client struct {
	base   *url.URL
	token  string
	client HTTPClient
}

var (
	_ catalog.Fetcher    = (*Client)(nil)
	_ submission.Creator = (*Client)(nil)
)

// NewClient builds a client from the backend config. A nil httpClient gets a
// default client honouring cfg.Timeout.
func NewClient(cfg config.BackendConfig, httpClient HTTPClient) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("backend: base URL is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("backend: parse base URL: %w", err)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{base: parsed, token: cfg.Token, client: httpClient}, nil
}

type envelope[T any] struct {
	Data T `json:"data"`
}

// FetchOptions returns one attribute list.
func (c *Client) FetchOptions(ctx context.Context, kind enums.OptionKind) ([]catalog.Option, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown option kind %q", kind))
	}
	var out envelope[[]catalog.Option]
	if err := c.getJSON(ctx, "options/"+kind.String(), &out); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load "+kind.String())
	}
	return out.Data, nil
}

// FetchDiscounts returns the discount reference list.
func (c *Client) FetchDiscounts(ctx context.Context) ([]catalog.Discount, error) {
	var out envelope[[]catalog.Discount]
	if err := c.getJSON(ctx, "discounts", &out); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load discounts")
	}
	return out.Data, nil
}

// CreateProduct posts the assembled product. Non-success answers come back
// as *submission.RemoteError carrying the backend message.
func (c *Client) CreateProduct(ctx context.Context, payload submission.ProductPayload) (*submission.Created, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "products", payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}
	var out envelope[submission.Created]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("backend: decode created product: %w", err)
	}
	return &out.Data, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dest any) error {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("backend: decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	ref := &url.URL{Path: strings.TrimPrefix(endpoint, "/")}
	req, err := http.NewRequestWithContext(ctx, method, c.base.ResolveReference(ref).String(), body)
	if err != nil {
		return nil, fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, endpoint string, payload any) (*http.Request, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("backend: encode payload: %w", err)
	}
	req, err := c.newRequest(ctx, method, endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// errorFromResponse reads {"error":{"message"}}, {"message"} or a plain-text body.
func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	remote := &submission.RemoteError{Status: resp.StatusCode}

	type errorPayload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return remote
	}
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Error != nil && payload.Error.Message != "":
			remote.Message = payload.Error.Message
		case payload.Message != "":
			remote.Message = payload.Message
		}
		return remote
	}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		remote.Message = trimmed
	}
	return remote
}
