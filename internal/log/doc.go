// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// Backlink exports are produced by third-party crawlers and routinely carry
// URLs with session identifiers, signed-link signatures and API tokens in
// their query strings. The SecureHandler masks:
//   - attribute values under sensitive keys (token, secret, cookie, ...)
//   - values that look like credentials (JWTs, bearer tokens, long keys)
//   - sensitive query parameters and passwords inside URL-valued attributes
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("target skipped",
//	    "url", "https://example.com/x?token=abc", // logged as https://example.com/x?token=***REDACTED***
//	)
package log
