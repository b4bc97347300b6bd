package logger

import (
	"go.uber.org/zap"
)

// NewLogger builds the production logger every binary shares.
func NewLogger() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return l
}
