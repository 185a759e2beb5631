// Package app links the route files into the binary. Every route file
// registers its exports with manifest.Default from init(), keyed by its
// path under this directory.
package app

import (
	_ "github.com/joeydtaylor/steeze-fsrouter/app/modules/billing/routes"
	_ "github.com/joeydtaylor/steeze-fsrouter/app/modules/billing/routes/invoices"
	_ "github.com/joeydtaylor/steeze-fsrouter/app/routes"
	_ "github.com/joeydtaylor/steeze-fsrouter/app/routes/api/mount"
	_ "github.com/joeydtaylor/steeze-fsrouter/app/routes/test"
)
