package logger

import (
	"github.com/joeydtaylor/steeze-client/pkg/config"
	"go.uber.org/zap"
)

func ProvideLoggerMiddleware(cfg config.Config) *Middleware {
	AddBodyLogPaths(cfg.Admin.LogBodyPaths...)
	return NewMiddleware(NewLog(cfg.Log, "http-access.log"))
}

func ProvideLogger(cfg config.Config) *zap.Logger { return NewLog(cfg.Log, "system.log") }

// ProvideClientLogger backs the outbound request log of the policy client.
func ProvideClientLogger(cfg config.Config) *zap.Logger { return NewLog(cfg.Log, "http-client.log") }
