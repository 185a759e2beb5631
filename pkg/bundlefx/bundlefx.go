// bundlefx/bundlefx.go
package bundlefx

import (
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/ratelimit"
	"go.uber.org/fx"
)

// Module provided to fx
var Module = fx.Options(
	auth.Module,
	logger.Module,
	metrics.Module,
	ratelimit.Module,
)
