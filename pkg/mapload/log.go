package mapload

import (
	"go.uber.org/zap"

	"github.com/Faultbox/gridmap/internal/logger"
)

// SetLogger routes loader diagnostics, such as the report for a missing
// text map, to l. Passing nil discards them again, which is also the state
// before the first call.
func SetLogger(l *zap.Logger) {
	logger.Set(l)
}
