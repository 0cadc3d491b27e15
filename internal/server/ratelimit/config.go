package ratelimit

import (
	"strings"
	"time"
)

// Route is a method and path prefix subject to limiting. A path ending in "/"
// matches every path below it.
type Route struct {
	Method string
	Path   string
}

// Config controls the limiter.
type Config struct {
	Enabled         bool
	PerWindow       int
	Window          time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Routes          []Route
}

// PerMinute returns a config allowing perMinute requests per client per minute on routes.
// A non-positive perMinute disables limiting.
func PerMinute(perMinute int, routes ...Route) Config {
	return Config{
		Enabled:         perMinute > 0,
		PerWindow:       perMinute,
		Window:          time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Routes:          routes,
	}
}

func (c Config) withDefaults() Config {
	if c.PerWindow <= 0 {
		c.Enabled = false
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = time.Hour
	}
	return c
}

// Limits reports whether a request is subject to limiting.
func (c Config) Limits(method, path string) bool {
	for _, r := range c.Routes {
		if r.Method != "" && r.Method != method {
			continue
		}
		if r.Path == path || (strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path)) {
			return true
		}
	}
	return false
}
