// Package modules defines web module registry helpers.
package modules

import (
	module "github.com/madrasahweb/site/internal/services/web/module"
	"github.com/madrasahweb/site/internal/services/web/modules/api"
	"github.com/madrasahweb/site/internal/services/web/modules/site"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// Dependencies carries the per-module configuration composed by the
// server. Each module only sees its own config.
type Dependencies struct {
	Site site.Config
	API  api.Config
}
