// Package httputil provides the HTTP plumbing used by remote feeds.
//
// # Overview
//
//   - [Client]: GET with default headers, status mapping, retries, and an
//     optional byte cache in front of the network
//   - [Retry]: retry with exponential backoff for errors marked retryable
//
// # Retry
//
// [Retry] only repeats operations that returned a [RetryableError]:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Everything else (404, malformed JSON, other 4xx) fails immediately.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetch()
//	})
//
// # Status mapping
//
// [Client] translates responses into structured errors from pkg/errors:
// 404 becomes NOT_FOUND, 429 becomes RATE_LIMITED, and any other failure
// becomes NETWORK_ERROR.
package httputil
