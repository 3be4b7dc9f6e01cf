package clientfx

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/joeydtaylor/steeze-client/pkg/admin"
	"github.com/joeydtaylor/steeze-client/pkg/config"
	"github.com/joeydtaylor/steeze-client/pkg/connspec"
	"github.com/joeydtaylor/steeze-client/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-client/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-client/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-client/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ---------- Options ----------

type Options struct {
	Service     string // for logs only
	ConfigPath  string // overrides STEEZE_CLIENT_CONFIG when set
	ServeAdmin  bool   // false: build the graph without binding a listener
	ProbeOnBoot bool
}

type Option func(*Options)

func WithService(s string) Option    { return func(o *Options) { o.Service = s } }
func WithConfigPath(p string) Option { return func(o *Options) { o.ConfigPath = p } }
func WithAdmin(on bool) Option       { return func(o *Options) { o.ServeAdmin = on } }
func WithProbeOnBoot(on bool) Option { return func(o *Options) { o.ProbeOnBoot = on } }

func defaultOptions() Options {
	return Options{Service: "steeze-client", ServeAdmin: true}
}

// Module returns the complete Fx option set: config, loggers, auth, metrics,
// the connection policies, the policy-applying client and the admin server.
func Module(opts ...Option) fx.Option {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return fx.Options(
		fx.Supply(o),
		fx.Provide(provideConfig),

		auth.Module,
		logger.Module,
		metrics.Module,

		// Connection policies + client
		fx.Provide(connspec.Policies),
		fx.Provide(provideClient),

		// Admin router (named "admin")
		fx.Provide(httpx.NewChi),
		fx.Provide(fx.Annotate(provideRouter, fx.ResultTags(`name:"admin"`))),

		fx.Invoke(registerHooks),
	)
}

// ---------- providers ----------

func provideConfig(o Options) (config.Config, error) {
	if o.ConfigPath != "" {
		return config.Load(o.ConfigPath)
	}
	return config.LoadFromEnv(config.DefaultPath)
}

type clientDeps struct {
	fx.In
	Cfg      config.Config
	Policies []connspec.ConnectionPolicy
	Log      *zap.Logger `name:"client"`
}

func provideClient(d clientDeps) *http.Client {
	return httpx.NewClient(d.Policies,
		httpx.WithTimeout(d.Cfg.Client.Timeout()),
		httpx.WithIdleConns(d.Cfg.Client.MaxIdleConns, d.Cfg.Client.IdleConnTimeout()),
		httpx.WithLogger(d.Log),
		httpx.WithMetrics(true),
	)
}

type routerDeps struct {
	fx.In
	AuthMW   *auth.Middleware
	LogMW    *logger.Middleware
	Metrics  http.Handler `name:"metrics"`
	R        httpx.Router
	Client   *http.Client
	Policies []connspec.ConnectionPolicy
	Log      *zap.Logger
}

func provideRouter(d routerDeps) http.Handler {
	return admin.BuildRouter(admin.Deps{
		Auth:     d.AuthMW,
		LogMW:    d.LogMW,
		Metrics:  d.Metrics,
		Router:   d.R,
		Client:   d.Client,
		Policies: d.Policies,
		Log:      d.Log,
	})
}

// ---------- lifecycle ----------

type serverDeps struct {
	fx.In
	Opts   Options
	Cfg    config.Config
	Logger *zap.Logger
	Client *http.Client
	Admin  http.Handler `name:"admin"`
}

func registerHooks(lc fx.Lifecycle, d serverDeps) {
	log := d.Logger.With(zap.String("service", d.Opts.Service))
	srv := newServer(d.Cfg.Admin, d.Admin)
	useTLS := fileExists(d.Cfg.Admin.TLSCert) && fileExists(d.Cfg.Admin.TLSKey)
	probeCtx, probeCancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if d.Opts.ProbeOnBoot && d.Cfg.Client.ProbeURL != "" {
				go func() {
					res := admin.Probe(probeCtx, d.Client, d.Cfg.Client.ProbeURL)
					logProbe(log, res)
				}()
			}
			if !d.Opts.ServeAdmin {
				return nil
			}

			if useTLS {
				log.Info("admin starting (TLS)",
					zap.String("addr", srv.Addr),
					zap.String("cert", d.Cfg.Admin.TLSCert),
				)
				go func() {
					if err := srv.ListenAndServeTLS(d.Cfg.Admin.TLSCert, d.Cfg.Admin.TLSKey); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Fatal("admin failed", zap.Error(err))
					}
				}()
			} else {
				log.Info("admin starting (PLAINTEXT)", zap.String("addr", srv.Addr))
				srv.TLSConfig = nil
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Fatal("admin failed", zap.Error(err))
					}
				}()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			probeCancel()
			d.Client.CloseIdleConnections()
			if !d.Opts.ServeAdmin {
				return nil
			}
			log.Info("admin stopping")
			return srv.Shutdown(ctx)
		},
	})
}

// newServer serves the admin surface under the same modern TLS policy the
// client prefers.
func newServer(cfg config.Admin, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Listen,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		TLSConfig:    connspec.ModernTLS().TLSConfig(),
	}
}

func logProbe(log *zap.Logger, res admin.ProbeResult) {
	if res.Error != "" {
		log.Error("probe failed", zap.String("url", res.URL), zap.String("error", res.Error))
		return
	}
	log.Info("probe ok",
		zap.String("url", res.URL),
		zap.Int("status", res.Status),
		zap.String("policy", res.Policy),
		zap.String("tlsVersion", res.TLSVersion),
		zap.String("cipherSuite", res.Cipher),
	)
}

// ---------- tiny helpers ----------

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
