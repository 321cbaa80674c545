package render

import (
	"context"
	"errors"
	"testing"

	"propwire/domain/page"
	"propwire/pkg/common"
	pkgerrors "propwire/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// lazyCounter builds a prop set with one eager prop and two lazy props
// whose evaluations are counted
func lazyCounter() (page.Props, *int, *int) {
	statsCalls := 0
	activityCalls := 0

	props := page.Props{
		"title": page.Eager("Dashboard"),
		"stats": page.Lazy(func(ctx context.Context) (interface{}, error) {
			statsCalls++
			return map[string]interface{}{"total": 7}, nil
		}),
		"activity": page.Lazy(func(ctx context.Context) (interface{}, error) {
			activityCalls++
			return []string{"a", "b"}, nil
		}),
	}
	return props, &statsCalls, &activityCalls
}

func newTestDispatcher(t *testing.T, builders map[string]Builder, shared Builder) *Dispatcher {
	t.Helper()

	registry := NewRegistry()
	for name, builder := range builders {
		require.NoError(t, registry.Register(name, builder))
	}
	return NewDispatcher(registry, shared, "v1", zap.NewNop(), nil)
}

func TestResolveWithFilterIncludesEagerAndRequestedLazy(t *testing.T) {
	d := newTestDispatcher(t, nil, nil)
	props, statsCalls, activityCalls := lazyCounter()

	resolved, err := d.Resolve(context.Background(), props, page.NewFilter([]string{"stats"}))
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"title": "Dashboard",
		"stats": map[string]interface{}{"total": 7},
	}, resolved)
	assert.Equal(t, 1, *statsCalls)
	assert.Equal(t, 0, *activityCalls, "unrequested lazy prop must not run")
}

func TestResolveWithoutFilterExcludesAllLazy(t *testing.T) {
	d := newTestDispatcher(t, nil, nil)
	props, statsCalls, activityCalls := lazyCounter()

	resolved, err := d.Resolve(context.Background(), props, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"title": "Dashboard"}, resolved)
	assert.Zero(t, *statsCalls)
	assert.Zero(t, *activityCalls)
}

func TestResolveIgnoresUnknownFilterKeys(t *testing.T) {
	d := newTestDispatcher(t, nil, nil)
	props, _, _ := lazyCounter()

	resolved, err := d.Resolve(context.Background(), props, page.NewFilter([]string{"stats", "no-such-prop"}))
	require.NoError(t, err)

	_, present := resolved["no-such-prop"]
	assert.False(t, present)
	assert.Contains(t, resolved, "stats")
}

func TestResolveEmptyFilterStillIncludesEager(t *testing.T) {
	d := newTestDispatcher(t, nil, nil)
	props, statsCalls, _ := lazyCounter()

	resolved, err := d.Resolve(context.Background(), props, page.NewFilter(nil))
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"title": "Dashboard"}, resolved)
	assert.Zero(t, *statsCalls)
}

func TestResolveWrapsThunkError(t *testing.T) {
	d := newTestDispatcher(t, nil, nil)
	boom := errors.New("db down")
	props := page.Props{
		"stats": page.Lazy(func(ctx context.Context) (interface{}, error) {
			return nil, boom
		}),
	}

	_, err := d.Resolve(context.Background(), props, page.NewFilter([]string{"stats"}))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeRender))
	assert.ErrorIs(t, err, boom)
}

func TestRenderPageUnknownComponent(t *testing.T) {
	d := newTestDispatcher(t, nil, nil)

	_, err := d.RenderPage(context.Background(), Request{Component: "Missing", URL: "/missing"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestRenderPageMergesSharedUnderComponentProps(t *testing.T) {
	builders := map[string]Builder{
		"Dashboard": func(ctx context.Context) (page.Props, error) {
			return page.Props{"title": page.Eager("Dashboard")}, nil
		},
	}
	d := newTestDispatcher(t, builders, SharedProps("v1"))

	ctx := common.WithUserID(context.Background(), "u-1")
	p, err := d.RenderPage(ctx, Request{Component: "Dashboard", URL: "/app/dashboard"})
	require.NoError(t, err)

	assert.Equal(t, "Dashboard", p.Component)
	assert.Equal(t, "v1", p.Version)
	assert.Equal(t, "Dashboard", p.Props["title"])
	assert.Equal(t, "v1", p.Props["appVersion"])

	auth, ok := p.Props["auth"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "u-1", auth["id"])
}

func TestRegistryRejectsDuplicateComponent(t *testing.T) {
	registry := NewRegistry()
	builder := func(ctx context.Context) (page.Props, error) { return nil, nil }

	require.NoError(t, registry.Register("Dashboard", builder))
	assert.Error(t, registry.Register("Dashboard", builder))
	assert.Equal(t, []string{"Dashboard"}, registry.Components())
}
