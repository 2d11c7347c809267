// Package ratelimit defines the hook an engine consults before it parses a request.
package ratelimit

import (
	"context"
)

// RateLimiter decides whether a request is served. Returning true rejects the request with a
// RateLimitedError.
type RateLimiter interface {
	LimitQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) bool
}

// Func adapts a function to the RateLimiter interface.
type Func func(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) bool

func (f Func) LimitQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) bool {
	return f(ctx, queryString, operationName, variables)
}
