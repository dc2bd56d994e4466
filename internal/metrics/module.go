package metrics

import "go.uber.org/fx"

// Module provides the process wide Metrics.
var Module = fx.Provide(New)
