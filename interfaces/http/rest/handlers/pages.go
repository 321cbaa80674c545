package handlers

import (
	"context"
	"strconv"

	"propwire/application/render"
	"propwire/application/services"
	"propwire/domain/page"
	"propwire/pkg/common"
)

// Page component names served by the demo application
const (
	ComponentDashboard = "Dashboard"
	ComponentActivity  = "Activity"
)

// RegisterPages registers the demo page components and their prop
// builders. Expensive aggregates sit behind lazy props so they only run
// when a partial reload asks for them.
func RegisterPages(registry *render.Registry, activity *services.ActivityService) error {
	if err := registry.Register(ComponentDashboard, dashboardProps(activity)); err != nil {
		return err
	}
	return registry.Register(ComponentActivity, activityProps(activity))
}

// dashboardProps builds the dashboard prop set
func dashboardProps(activity *services.ActivityService) render.Builder {
	return func(ctx context.Context) (page.Props, error) {
		props := page.Props{
			"title":  page.Eager("Dashboard"),
			"recent": page.Eager(activity.Recent(ctx, 5)),
			"stats": page.Lazy(func(ctx context.Context) (interface{}, error) {
				return activity.Stats(ctx)
			}),
			"activity": page.Lazy(func(ctx context.Context) (interface{}, error) {
				return activity.Recent(ctx, 20), nil
			}),
		}
		return props, nil
	}
}

// activityProps builds the activity page prop set
func activityProps(activity *services.ActivityService) render.Builder {
	return func(ctx context.Context) (page.Props, error) {
		limit := 25
		if raw := common.GetQuery(ctx).Get("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}

		props := page.Props{
			"title":  page.Eager("Activity"),
			"events": page.Eager(activity.Recent(ctx, limit)),
			"totals": page.Lazy(func(ctx context.Context) (interface{}, error) {
				stats, err := activity.Stats(ctx)
				if err != nil {
					return nil, err
				}
				return stats.CountByAction, nil
			}),
		}
		return props, nil
	}
}
