// Package healthcheck performs a single keep-alive probe against an HTTP
// endpoint and classifies the response with a configurable status predicate.
package healthcheck
