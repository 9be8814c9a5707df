package lower

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Logger returns the logger lowering is traced to.  By default, nothing is
// logged.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger sets the logger lowering is traced to.  A nil logger disables
// logging.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}

	logger.Store(l)
}
