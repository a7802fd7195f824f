// Package log provides logging for catacrawl on top of the standard
// slog package, with automatic masking of credentials.
//
// Crawl jobs carry secrets that must never reach shared logs: egress
// proxy passwords, remote browser pool tokens, and authenticated asset
// URLs. The SanitizingHandler masks attribute values whose keys or
// shapes look credential-like before handing the record to the
// underlying handler, so even verbose runs are safe to archive.
//
// Usage:
//
//	logger := log.NewSanitizingLogger(os.Stderr, verbose)
//	logger.Info("renderer ready",
//	    "proxy_pass", cfg.ProxyPass, // masked in output
//	    "endpoint", cfg.RemoteBrowserURL,
//	)
package log
