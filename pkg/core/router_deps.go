package core

import (
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/event"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/manifest"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/metrics"
	httpx "github.com/joeydtaylor/steeze-fsrouter/pkg/transport/httpx"
)

type BuildDeps struct {
	Auth     *auth.Middleware
	LogMW    *logger.Middleware
	Metrics  *metrics.Metrics
	Router   httpx.Router
	Pipeline *event.Pipeline
	Loader   manifest.Loader // manifest.Default when nil
	Log      *zap.Logger
}
