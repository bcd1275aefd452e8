package modules

import (
	"github.com/madrasahweb/site/internal/services/web/modules/api"
	"github.com/madrasahweb/site/internal/services/web/modules/site"
)

// Default returns the site's modules in mount order.
func Default(deps Dependencies) []Module {
	return []Module{
		site.New(deps.Site),
		api.New(deps.API),
	}
}
