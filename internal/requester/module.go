package requester

import (
	"go.uber.org/fx"
)

// Module provides the outbound HTTP client
var Module = fx.Options(
	fx.Provide(
		NewHTTPClient,
	),
)
