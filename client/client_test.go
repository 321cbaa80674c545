package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"propwire/domain/page"
	"propwire/interfaces/http/protocol"
	pkgerrors "propwire/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakePageServer answers protocol visits for a single component,
// honoring the partial-only header the way the real dispatcher does
func fakePageServer(t *testing.T, component string, props map[string]interface{}) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.Header.Get(protocol.HeaderPropwire))

		responseProps := map[string]interface{}{}
		if only := r.Header.Get(protocol.HeaderPartialOnly); only != "" && r.Header.Get(protocol.HeaderPartialComponent) == component {
			for _, key := range strings.Split(only, ",") {
				if v, ok := props[key]; ok {
					responseProps[key] = v
				}
			}
		} else {
			for k, v := range props {
				responseProps[k] = v
			}
		}

		w.Header().Set(protocol.HeaderPropwire, "true")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(page.Page{
			Component: component,
			Props:     responseProps,
			URL:       r.URL.RequestURI(),
			Version:   "v1",
		})
	}))
}

func TestVisitThenPartialReloadMerges(t *testing.T) {
	srv := fakePageServer(t, "Dashboard", map[string]interface{}{
		"title": "Dashboard",
		"stats": map[string]interface{}{"total": float64(7)},
	})
	defer srv.Close()

	c := NewController(zap.NewNop())

	p, err := c.Visit(context.Background(), srv.URL+"/app/dashboard", Options{})
	require.NoError(t, err)
	assert.Equal(t, "Dashboard", p.Component)
	assert.Contains(t, p.Props, "title")

	// Partial reload for stats only: title must survive the merge.
	p, err = c.Reload(context.Background(), Options{Only: []string{"stats"}})
	require.NoError(t, err)

	state := c.Page()
	require.NotNil(t, state)
	assert.Equal(t, "Dashboard", state.Props["title"])
	assert.Equal(t, map[string]interface{}{"total": float64(7)}, state.Props["stats"])
}

func TestPartialVisitBeforeInitialVisitIsCallerError(t *testing.T) {
	c := NewController(zap.NewNop())

	_, err := c.Visit(context.Background(), "http://localhost:1/app/dashboard", Options{Only: []string{"stats"}})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestReloadBeforeInitialVisitIsCallerError(t *testing.T) {
	c := NewController(zap.NewNop())

	_, err := c.Reload(context.Background(), Options{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestComponentSwitchReplacesState(t *testing.T) {
	c := NewController(zap.NewNop())

	c.apply(c.beginVisit(), "http://x/app/dashboard", &page.Page{
		Component: "Dashboard",
		Props:     map[string]interface{}{"title": "Dashboard", "stats": 1},
		URL:       "/app/dashboard",
		Version:   "v1",
	})
	c.apply(c.beginVisit(), "http://x/app/activity", &page.Page{
		Component: "Activity",
		Props:     map[string]interface{}{"title": "Activity"},
		URL:       "/app/activity",
		Version:   "v1",
	})

	state := c.Page()
	require.NotNil(t, state)
	assert.Equal(t, "Activity", state.Component)
	_, leaked := state.Props["stats"]
	assert.False(t, leaked, "props from the previous component must not survive a switch")
}

func TestSupersededResponseIsDiscarded(t *testing.T) {
	c := NewController(zap.NewNop())

	first := c.beginVisit()
	second := c.beginVisit()

	// The newer visit's response lands first.
	c.apply(second, "http://x/app/dashboard", &page.Page{
		Component: "Dashboard",
		Props:     map[string]interface{}{"title": "new"},
		URL:       "/app/dashboard",
		Version:   "v1",
	})
	// The older visit's response arrives late and must be dropped.
	c.apply(first, "http://x/app/dashboard", &page.Page{
		Component: "Dashboard",
		Props:     map[string]interface{}{"title": "old"},
		URL:       "/app/dashboard",
		Version:   "v1",
	})

	state := c.Page()
	require.NotNil(t, state)
	assert.Equal(t, "new", state.Props["title"])
}

func TestVersionConflictTriggersFullReload(t *testing.T) {
	conflicts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(protocol.HeaderVersion) == "stale" {
			conflicts++
			w.Header().Set(protocol.HeaderLocation, r.URL.RequestURI())
			w.WriteHeader(http.StatusConflict)
			return
		}

		// The retried visit must be a clean full one.
		assert.Empty(t, r.Header.Get(protocol.HeaderPartialOnly))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(page.Page{
			Component: "Dashboard",
			Props:     map[string]interface{}{"title": "fresh"},
			URL:       r.URL.RequestURI(),
			Version:   "v2",
		})
	}))
	defer srv.Close()

	c := NewController(zap.NewNop(), WithVersion("stale"))

	p, err := c.Visit(context.Background(), srv.URL+"/app/dashboard", Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, "fresh", p.Props["title"])

	state := c.Page()
	require.NotNil(t, state)
	assert.Equal(t, "v2", state.Version)
}
