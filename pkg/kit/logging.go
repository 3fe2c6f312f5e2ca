package kit

import (
	"strings"

	"go.uber.org/zap"
)

// NewLogger builds the service logger. Development environments get the
// human-readable console encoder, everything else logs JSON.
func NewLogger(service, env string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(env, "development") {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.InitialFields = map[string]any{"service": service, "env": env}

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
