// Package logger - Process-wide zap logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var once sync.Once
var log *zap.Logger

// Get returns the process logger, building it on first use.
//
// Arguments:
//   - debug: Whether to use the development configuration. Only the first
//     call decides; later calls return the same logger.
//
// Returns:
//   - *zap.Logger: The shared logger instance.
func Get(debug bool) *zap.Logger {
	once.Do(func() {
		var err error
		if debug {
			log, err = zap.NewDevelopment()
		} else {
			log, err = zap.NewProduction()
		}
		if err != nil {
			log = zap.NewNop()
		}
	})
	return log
}
