package routes

import (
	"github.com/joeydtaylor/steeze-fsrouter/pkg/event"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/manifest"
)

func init() {
	manifest.Register("modules/billing/routes/index.get.go", manifest.Module{
		Default: func(*event.Context) (any, error) {
			return event.Success(map[string]string{"module": "billing"}, ""), nil
		},
	})
}
