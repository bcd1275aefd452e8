// Package timeouts defines shared timeout constants used by the site
// processes, so server and client boundaries agree on their budgets.
package timeouts

import "time"

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Idle limits how long keep-alive connections stay open between requests.
const Idle = 60 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// CMSRequest is the default budget for one CMS query round trip.
const CMSRequest = 10 * time.Second

// CacheOperation caps a single content cache read or write so a slow cache
// backend degrades to a direct CMS read instead of stalling the page.
const CacheOperation = 500 * time.Millisecond

// TelemetryShutdown caps the flush of pending spans at process exit.
const TelemetryShutdown = 5 * time.Second
