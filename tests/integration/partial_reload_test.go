package integration

import (
	"context"
	"net/http/httptest"
	"testing"

	"propwire/application/render"
	"propwire/application/services"
	"propwire/client"
	"propwire/infrastructure/config"
	"propwire/interfaces/http/protocol"
	"propwire/interfaces/http/rest"
	"propwire/interfaces/http/rest/handlers"
	pkgerrors "propwire/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// startServer wires the full stack the way cmd/api does, minus metrics,
// and exposes it over httptest
func startServer(t *testing.T) (*httptest.Server, *services.ActivityService) {
	t.Helper()

	cfg := &config.Config{
		Environment:  "development",
		AssetVersion: "v1",
		JWTIssuer:    "propwire",
	}
	logger := zap.NewNop()

	activity := services.NewActivityService(logger)
	activity.Record(context.Background(), "system", "seed")

	registry := render.NewRegistry()
	require.NoError(t, handlers.RegisterPages(registry, activity))

	dispatcher := render.NewDispatcher(registry, render.SharedProps(cfg.AssetVersion), cfg.AssetVersion, logger, nil)
	renderer := protocol.NewRenderer(dispatcher, pkgerrors.NewErrorHandler(logger, false), nil, logger)

	router := rest.NewRouter(cfg, renderer, activity, nil, logger)
	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)

	return srv, activity
}

func TestFullVisitThenPartialReload(t *testing.T) {
	srv, activity := startServer(t)
	ctx := context.Background()

	c := client.NewController(zap.NewNop())

	// Full visit: eager props only, the development user injected by the
	// auth middleware shows up as the shared auth prop.
	p, err := c.Visit(ctx, srv.URL+"/app/dashboard", client.Options{})
	require.NoError(t, err)

	assert.Equal(t, "Dashboard", p.Component)
	assert.Equal(t, "v1", p.Version)
	assert.Equal(t, "Dashboard", p.Props["title"])
	assert.Contains(t, p.Props, "recent")

	auth, ok := p.Props["auth"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "dev-user", auth["id"])

	_, hasStats := p.Props["stats"]
	assert.False(t, hasStats)
	assert.Zero(t, activity.StatsComputations(), "lazy stats must not run on a full visit")

	// Partial reload restricted to stats.
	_, err = c.Reload(ctx, client.Options{Only: []string{"stats"}})
	require.NoError(t, err)

	state := c.Page()
	require.NotNil(t, state)
	assert.Equal(t, "Dashboard", state.Props["title"], "unfetched keys keep their previous value")
	assert.Contains(t, state.Props, "stats")
	assert.EqualValues(t, 1, activity.StatsComputations())
}

func TestPartialReloadIgnoresUnknownKeys(t *testing.T) {
	srv, activity := startServer(t)
	ctx := context.Background()

	c := client.NewController(zap.NewNop())

	_, err := c.Visit(ctx, srv.URL+"/app/dashboard", client.Options{})
	require.NoError(t, err)

	p, err := c.Reload(ctx, client.Options{Only: []string{"stats", "no-such-prop"}})
	require.NoError(t, err)

	_, present := p.Props["no-such-prop"]
	assert.False(t, present)
	assert.EqualValues(t, 1, activity.StatsComputations())
}

func TestNavigationBetweenComponentsReplacesState(t *testing.T) {
	srv, _ := startServer(t)
	ctx := context.Background()

	c := client.NewController(zap.NewNop())

	_, err := c.Visit(ctx, srv.URL+"/app/dashboard", client.Options{})
	require.NoError(t, err)

	_, err = c.Reload(ctx, client.Options{Only: []string{"activity"}})
	require.NoError(t, err)

	_, err = c.Visit(ctx, srv.URL+"/app/activity", client.Options{})
	require.NoError(t, err)

	state := c.Page()
	require.NotNil(t, state)
	assert.Equal(t, "Activity", state.Component)
	assert.Contains(t, state.Props, "events")
	_, leaked := state.Props["recent"]
	assert.False(t, leaked, "dashboard props are discarded on navigation")
}

func TestStaleClientVersionForcesFullReload(t *testing.T) {
	srv, _ := startServer(t)
	ctx := context.Background()

	c := client.NewController(zap.NewNop(), client.WithVersion("v0"))

	p, err := c.Visit(ctx, srv.URL+"/app/dashboard", client.Options{})
	require.NoError(t, err)

	assert.Equal(t, "Dashboard", p.Component)
	state := c.Page()
	require.NotNil(t, state)
	assert.Equal(t, "v1", state.Version, "client adopts the server version after the forced reload")
}
