package logger

import "go.uber.org/zap"

// New returns a production logger for "production" and a development logger otherwise.
func New(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
