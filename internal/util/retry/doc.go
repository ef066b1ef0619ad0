// Package retry provides exponential-backoff retries for operations
// against external providers. Errors wrapped with Fatal are returned
// immediately without further attempts.
package retry
