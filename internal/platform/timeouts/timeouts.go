// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// CacheRead bounds the one-shot reference cache read that precedes the
// first delivered batch of a subscription.
const CacheRead = 3 * time.Second

// StreamDial caps the wait time when dialing the remote change stream.
const StreamDial = 5 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second
