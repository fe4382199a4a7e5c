// Package ratelimit provides a Redis-backed fixed window limiter, shared by all instances of the service.
// The HTTP layer uses it to cap how often a user may borrow.
package ratelimit
