package render

import (
	"context"

	"propwire/domain/page"
	"propwire/pkg/common"
)

// SharedProps returns a builder contributing props available on every
// page: the authenticated user (when present) and the running asset
// version. Component props override these on key collision.
func SharedProps(version string) Builder {
	return func(ctx context.Context) (page.Props, error) {
		props := page.Props{
			"appVersion": page.Eager(version),
		}

		if userID, ok := common.GetUserID(ctx); ok {
			user := map[string]interface{}{"id": userID}
			if name, ok := common.GetUserName(ctx); ok {
				user["name"] = name
			}
			props["auth"] = page.Eager(user)
		}

		return props, nil
	}
}
