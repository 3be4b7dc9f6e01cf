package auth

import (
	"os"
	"strings"

	"github.com/joeydtaylor/steeze-client/pkg/config"
	"go.uber.org/fx"
)

// ProvideAuthentication wires the admin auth from config; the signing secret
// itself is read from the env var named by admin.jwt_secret_env.
func ProvideAuthentication(cfg config.Config) *Middleware {
	var secret []byte
	if k := strings.TrimSpace(cfg.Admin.JWTSecretEnv); k != "" {
		secret = []byte(os.Getenv(k))
	}
	return New(Options{
		Secret:    secret,
		Issuer:    strings.TrimSpace(cfg.Admin.JWTIssuer),
		Audience:  strings.TrimSpace(cfg.Admin.JWTAudience),
		Leeway:    cfg.Admin.JWTLeeway(),
		AdminRole: cfg.Admin.AdminRole,
		DevBypass: cfg.Admin.DevBypass || os.Getenv("AUTH_DEV_BYPASS") == "true",
	})
}

var Module = fx.Options(
	fx.Provide(ProvideAuthentication),
)
