// Package retry provides retry logic with configurable backoff strategies
// for transient upstream failures.
//
// Every Steam provider call in this tool runs under a short fixed timeout;
// retry keeps the call within that window rather than extending it. The
// retry predicate understands the typed provider errors from pkg/errors,
// so auth, not-found and parse failures are never retried.
package retry
