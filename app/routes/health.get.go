package routes

import (
	"runtime/debug"
	"time"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/event"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/manifest"
)

var started = time.Now()

func init() {
	manifest.Register("routes/health.get.go", manifest.Module{Default: health})
}

func health(*event.Context) (any, error) {
	return map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"uptime":    time.Since(started).Seconds(),
		"version":   version(),
	}, nil
}

func version() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return "unknown"
}
