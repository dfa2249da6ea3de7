// Package notion is a small client for the parts of the Notion REST API that
// timemachine uses: database search and query, page creation, and page
// updates.
//
// Requests are paced by a token-bucket limiter and retried on rate limiting,
// server errors, and timeouts. A 429 response's Retry-After header overrides
// the exponential backoff for that attempt. Failures surface as *APIError
// values that classify against the services error markers.
package notion
