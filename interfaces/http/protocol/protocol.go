package protocol

import (
	"encoding/json"
	"net/http"
	"strings"

	"propwire/application/render"
	"propwire/domain/page"
	"propwire/pkg/common"
	pkgerrors "propwire/pkg/errors"
	"propwire/pkg/observability"

	"go.uber.org/zap"
)

// Protocol headers. Requests mark themselves as protocol visits and may
// carry a partial-reload filter; responses always carry the marker so
// intermediaries can vary caches on it.
const (
	HeaderPropwire         = "X-Propwire"
	HeaderPartialOnly      = "X-Propwire-Partial-Only"
	HeaderPartialComponent = "X-Propwire-Partial-Component"
	HeaderVersion          = "X-Propwire-Version"
	HeaderLocation         = "X-Propwire-Location"
)

// Renderer negotiates the wire protocol for page responses: it turns the
// partial-reload headers into a render request, hands it to the
// dispatcher and writes the page JSON back
type Renderer struct {
	dispatcher *render.Dispatcher
	errors     *pkgerrors.ErrorHandler
	metrics    *observability.Collector
	logger     *zap.Logger
}

// NewRenderer creates a renderer
func NewRenderer(
	dispatcher *render.Dispatcher,
	errorHandler *pkgerrors.ErrorHandler,
	metrics *observability.Collector,
	logger *zap.Logger,
) *Renderer {
	return &Renderer{
		dispatcher: dispatcher,
		errors:     errorHandler,
		metrics:    metrics,
		logger:     logger,
	}
}

// IsProtocolVisit reports whether the request was issued by a protocol client
func IsProtocolVisit(r *http.Request) bool {
	return r.Header.Get(HeaderPropwire) == "true"
}

// Render resolves the component's props per the request's partial headers
// and writes the page response
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, component string) {
	// Stale asset version: tell the client to come back with a clean
	// full visit rather than answer from outdated code.
	if r.Method == http.MethodGet && IsProtocolVisit(r) {
		if v := r.Header.Get(HeaderVersion); v != "" && v != rd.dispatcher.Version() {
			if rd.metrics != nil {
				rd.metrics.VersionConflict.Inc()
			}
			rd.logger.Info("Asset version conflict",
				zap.String("client_version", v),
				zap.String("server_version", rd.dispatcher.Version()),
				zap.String("path", r.URL.Path),
			)
			w.Header().Set(HeaderLocation, r.URL.RequestURI())
			w.WriteHeader(http.StatusConflict)
			return
		}
	}

	req := render.Request{
		Component: component,
		URL:       r.URL.RequestURI(),
		Filter:    rd.negotiateFilter(r, component),
	}

	// Prop builders read request-scoped values from context only.
	ctx := common.WithQuery(r.Context(), r.URL.Query())

	p, err := rd.dispatcher.RenderPage(ctx, req)
	if err != nil {
		rd.errors.Handle(w, r, err)
		return
	}

	rd.writePage(w, r, p)
}

// negotiateFilter derives the requested-key filter from the partial
// headers. A partial request naming a different component than the one
// being rendered is answered with a full page: the client is about to
// swap components and merging would be meaningless.
func (rd *Renderer) negotiateFilter(r *http.Request, component string) *page.Filter {
	only := r.Header.Get(HeaderPartialOnly)
	if only == "" {
		return nil
	}

	claimed := r.Header.Get(HeaderPartialComponent)
	if claimed != component {
		if rd.metrics != nil {
			rd.metrics.PartialMismatch.Inc()
		}
		rd.logger.Warn("Partial visit for a different component, answering with full page",
			zap.String("claimed", claimed),
			zap.String("rendering", component),
			zap.String("path", r.URL.Path),
		)
		return nil
	}

	keys := strings.Split(only, ",")
	for i := range keys {
		keys[i] = strings.TrimSpace(keys[i])
	}
	return page.NewFilter(keys)
}

// writePage serializes a page snapshot onto the wire
func (rd *Renderer) writePage(w http.ResponseWriter, r *http.Request, p *page.Page) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(HeaderPropwire, "true")
	w.Header().Add("Vary", HeaderPropwire)
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(p); err != nil {
		rd.logger.Error("Failed to encode page response",
			zap.Error(err),
			zap.String("component", p.Component),
		)
	}
}
