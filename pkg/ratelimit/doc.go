// Package ratelimit provides rate limiting for upstream Steam providers.
//
// The pipeline makes several calls per title (store metadata, community XML,
// achievement schema, global percentages, donor profile pages). A shared
// token bucket keeps the aggregate request rate below the point where the
// community endpoints start returning 429s.
//
// All rate limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed
//   - Wait() - Block until a request is allowed
//   - Reset() - Reset the limiter state
package ratelimit
