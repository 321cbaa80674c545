package page

import (
	"strings"

	pkgerrors "propwire/pkg/errors"
)

// Page is the wire-level snapshot produced by a render: the component
// name, the resolved props, the URL that produced it and the asset
// version the server was running when it rendered.
type Page struct {
	Component string                 `json:"component"`
	Props     map[string]interface{} `json:"props"`
	URL       string                 `json:"url"`
	Version   string                 `json:"version"`
}

// NewPage creates a page snapshot with validation
func NewPage(component string, props map[string]interface{}, url, version string) (*Page, error) {
	component = strings.TrimSpace(component)
	if component == "" {
		return nil, pkgerrors.NewValidationError("page component cannot be empty")
	}
	if props == nil {
		props = map[string]interface{}{}
	}
	return &Page{
		Component: component,
		Props:     props,
		URL:       url,
		Version:   version,
	}, nil
}
