package render

import (
	"context"
	"fmt"
	"time"

	"propwire/domain/page"
	pkgerrors "propwire/pkg/errors"
	"propwire/pkg/observability"

	"go.uber.org/zap"
)

// Request describes a single render: the component to produce, the URL
// that asked for it, and the optional requested-key filter carried by a
// partial visit. A nil Filter means a full visit.
type Request struct {
	Component string
	URL       string
	Filter    *page.Filter
}

// IsPartial reports whether the request restricts evaluation to a key set
func (r Request) IsPartial() bool {
	return r.Filter != nil
}

// Dispatcher resolves page prop sets into wire-level pages.
//
// Resolution rules:
//   - eager props are always included
//   - lazy props run only when their key is in the filter
//   - lazy props outside the filter are omitted entirely
//   - with no filter, only eager props are included
//   - filter keys with no matching prop are ignored
type Dispatcher struct {
	registry *Registry
	shared   Builder
	version  string
	logger   *zap.Logger
	metrics  *observability.Collector
}

// NewDispatcher creates a dispatcher for the given component registry.
// The shared builder may be nil; when present its props are layered under
// every component's own props (component props win on collision).
func NewDispatcher(
	registry *Registry,
	shared Builder,
	version string,
	logger *zap.Logger,
	metrics *observability.Collector,
) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		shared:   shared,
		version:  version,
		logger:   logger,
		metrics:  metrics,
	}
}

// Version returns the asset version stamped on rendered pages
func (d *Dispatcher) Version() string {
	return d.version
}

// Resolve evaluates a prop set against an optional filter
func (d *Dispatcher) Resolve(ctx context.Context, props page.Props, filter *page.Filter) (map[string]interface{}, error) {
	resolved := make(map[string]interface{}, len(props))

	for _, key := range props.Keys() {
		value := props[key]

		if value.IsLazy() {
			// Lazy props are opt-in: without an explicit request for
			// their key the thunk must not run and the key is omitted.
			if !filter.Contains(key) {
				continue
			}

			v, err := value.Resolve(ctx)
			if err != nil {
				return nil, pkgerrors.NewRenderError(key, err)
			}
			if d.metrics != nil {
				d.metrics.LazyResolutions.WithLabelValues(key).Inc()
			}
			resolved[key] = v
			continue
		}

		v, err := value.Resolve(ctx)
		if err != nil {
			return nil, pkgerrors.NewRenderError(key, err)
		}
		resolved[key] = v
	}

	return resolved, nil
}

// RenderPage builds and resolves the props for a component and produces
// the page snapshot to put on the wire
func (d *Dispatcher) RenderPage(ctx context.Context, req Request) (*page.Page, error) {
	start := time.Now()

	builder, ok := d.registry.Builder(req.Component)
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("page component '%s'", req.Component))
	}

	props, err := builder(ctx)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "building props for %s", req.Component)
	}

	if d.shared != nil {
		sharedProps, err := d.shared(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "building shared props")
		}
		props = sharedProps.Merge(props)
	}

	resolved, err := d.Resolve(ctx, props, req.Filter)
	if err != nil {
		return nil, err
	}

	p, err := page.NewPage(req.Component, resolved, req.URL, d.version)
	if err != nil {
		return nil, err
	}

	kind := "full"
	if req.IsPartial() {
		kind = "partial"
	}
	if d.metrics != nil {
		d.metrics.Visits.WithLabelValues(req.Component, kind).Inc()
		d.metrics.RenderDuration.WithLabelValues(req.Component).Observe(time.Since(start).Seconds())
	}

	d.logger.Debug("Rendered page",
		zap.String("component", req.Component),
		zap.String("kind", kind),
		zap.Int("props", len(resolved)),
		zap.Strings("only", req.Filter.Keys()),
		zap.Duration("duration", time.Since(start)),
	)

	return p, nil
}
