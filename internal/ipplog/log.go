/* ippd - a library for building IPP printer servers
 *
 * Logging
 */

package ipplog

import (
	"net/http"
	"sort"

	"github.com/sirupsen/logrus"
)

// Log is the package-level logger every component derives its own
// component-scoped entry from. Its level and formatter are configured
// once, at startup, from server configuration.
var Log = logrus.New()

// For reports a logger scoped to component, carrying it as a
// structured field on every line rather than a string prefix.
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}

// SetLevel parses and applies a log level name ("error", "info",
// "debug", "trace"); unrecognized names fall back to "info". IPP's own
// "trace" granularity (full header and body dumps) maps to logrus'
// Trace level, one step below Debug.
func SetLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}

// Headers logs title followed by the header set, sorted by key for
// stable, diffable output — useful when comparing two requests by eye.
func Headers(entry *logrus.Entry, title string, hdr http.Header) {
	if !entry.Logger.IsLevelEnabled(logrus.TraceLevel) {
		return
	}

	keys := make([]string, 0, len(hdr))
	for k := range hdr {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entry.Trace(title)
	for _, k := range keys {
		entry.Tracef("%s: %s", k, hdr.Get(k))
	}
}
