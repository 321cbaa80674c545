package common

import (
	"context"
	"net/url"
)

// ContextKey represents a context key type
type ContextKey string

// Context keys
const (
	ContextKeyUserID    ContextKey = "user_id"
	ContextKeyUserName  ContextKey = "user_name"
	ContextKeyRequestID ContextKey = "request_id"
	ContextKeyQuery     ContextKey = "query"
)

// WithUserID adds user ID to context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ContextKeyUserID).(string)
	return userID, ok
}

// WithUserName adds the display name of the authenticated user to context
func WithUserName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ContextKeyUserName, name)
}

// GetUserName extracts the display name from context
func GetUserName(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(ContextKeyUserName).(string)
	return name, ok
}

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(ContextKeyRequestID).(string)
	return requestID, ok
}

// WithQuery carries the request's query parameters into context so that
// prop builders can read them without depending on net/http
func WithQuery(ctx context.Context, query url.Values) context.Context {
	return context.WithValue(ctx, ContextKeyQuery, query)
}

// GetQuery extracts query parameters from context
func GetQuery(ctx context.Context) url.Values {
	if query, ok := ctx.Value(ContextKeyQuery).(url.Values); ok {
		return query
	}
	return url.Values{}
}
