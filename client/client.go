// Package client implements the visiting side of the wire protocol: it
// issues full and partial visits, keeps the in-memory page state for the
// active component and merges partial responses into it.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"propwire/domain/page"
	"propwire/interfaces/http/protocol"
	pkgerrors "propwire/pkg/errors"
	"propwire/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configures a single visit
type Options struct {
	// Only restricts the visit to the named prop keys. Partial visits
	// are only valid against the currently rendered component.
	Only []string

	// BearerToken, when set, is sent as the Authorization header
	BearerToken string
}

// visitRequest is the validated form of a visit
type visitRequest struct {
	URL string `validate:"required,url"`
}

// Controller issues visits and owns the client page state
type Controller struct {
	httpClient *http.Client
	logger     *zap.Logger

	// version is the asset version this client was built against; the
	// server answers 409 when it has moved on
	version string

	mu         sync.Mutex
	current    *page.Page
	currentURL string

	// latest is the sequence number of the most recently started visit;
	// responses from older visits are discarded (last-response-wins)
	latest uint64
}

// Option customizes a Controller
type Option func(*Controller)

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Controller) {
		c.httpClient = httpClient
	}
}

// WithVersion sets the asset version reported on every visit
func WithVersion(version string) Option {
	return func(c *Controller) {
		c.version = version
	}
}

// NewController creates a visit controller
func NewController(logger *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		httpClient: http.DefaultClient,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Page returns a copy of the current page state, or nil before the
// first completed visit
func (c *Controller) Page() *page.Page {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	snapshot := *c.current
	snapshot.Props = MergeProps(c.current.Props, nil)
	return &snapshot
}

// Visit requests a page from the server and folds the response into the
// client page state
func (c *Controller) Visit(ctx context.Context, rawURL string, opts Options) (*page.Page, error) {
	if err := utils.ValidateStruct(visitRequest{URL: rawURL}); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	if _, err := url.Parse(rawURL); err != nil {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("invalid visit URL: %v", err))
	}

	// A partial visit is only meaningful against the component already
	// on screen; before the first visit there is nothing to merge into.
	var component string
	if len(opts.Only) > 0 {
		c.mu.Lock()
		if c.current == nil {
			c.mu.Unlock()
			return nil, pkgerrors.NewValidationError("partial visit before an initial full visit")
		}
		component = c.current.Component
		c.mu.Unlock()
	}

	seq := c.beginVisit()

	p, err := c.fetch(ctx, rawURL, component, opts, true)
	if err != nil {
		return nil, err
	}

	c.apply(seq, rawURL, p)
	return p, nil
}

// Reload re-issues a visit to the current URL
func (c *Controller) Reload(ctx context.Context, opts Options) (*page.Page, error) {
	c.mu.Lock()
	rawURL := c.currentURL
	c.mu.Unlock()

	if rawURL == "" {
		return nil, pkgerrors.NewValidationError("reload before an initial visit")
	}
	return c.Visit(ctx, rawURL, opts)
}

// beginVisit allocates the next visit sequence number
func (c *Controller) beginVisit() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest++
	return c.latest
}

// fetch performs the wire request, following at most one
// version-conflict redirect with the filter dropped
func (c *Controller) fetch(ctx context.Context, rawURL, component string, opts Options, retryOnConflict bool) (*page.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("building visit request: %v", err))
	}

	req.Header.Set(protocol.HeaderPropwire, "true")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	c.mu.Lock()
	version := c.version
	c.mu.Unlock()
	if version != "" {
		req.Header.Set(protocol.HeaderVersion, version)
	}
	if opts.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+opts.BearerToken)
	}
	if len(opts.Only) > 0 {
		req.Header.Set(protocol.HeaderPartialOnly, strings.Join(opts.Only, ","))
		req.Header.Set(protocol.HeaderPartialComponent, component)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.NewNetworkError("visit request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		// The server moved to a new asset version: repeat as a clean
		// full visit against the location it pointed at.
		location := resp.Header.Get(protocol.HeaderLocation)
		if location == "" || !retryOnConflict {
			return nil, pkgerrors.NewConflictError("server reported a version conflict")
		}
		c.logger.Info("Asset version changed, performing full reload",
			zap.String("location", location),
		)
		c.mu.Lock()
		c.version = ""
		c.mu.Unlock()
		return c.fetch(ctx, c.resolveLocation(rawURL, location), "", Options{BearerToken: opts.BearerToken}, false)

	case resp.StatusCode != http.StatusOK:
		return nil, pkgerrors.NewNetworkError(
			fmt.Sprintf("visit returned status %d", resp.StatusCode), nil)
	}

	var p page.Page
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, pkgerrors.NewNetworkError("decoding page response", err)
	}
	if p.Component == "" {
		return nil, pkgerrors.NewNetworkError("page response missing component", nil)
	}

	return &p, nil
}

// resolveLocation turns a conflict location into an absolute URL
func (c *Controller) resolveLocation(visited, location string) string {
	base, err := url.Parse(visited)
	if err != nil {
		return location
	}
	ref, err := url.Parse(location)
	if err != nil {
		return location
	}
	return base.ResolveReference(ref).String()
}

// apply folds a response into the page state. A response is discarded
// when a newer visit has started since; for the same component the props
// merge key-wise, for a different component the state is replaced.
func (c *Controller) apply(seq uint64, rawURL string, p *page.Page) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.latest {
		c.logger.Debug("Discarding superseded visit response",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", c.latest),
			zap.String("component", p.Component),
		)
		return
	}

	if c.current != nil && c.current.Component == p.Component {
		p.Props = MergeProps(c.current.Props, p.Props)
	}

	c.current = p
	c.currentURL = rawURL
	if c.version == "" {
		c.version = p.Version
	}
}
