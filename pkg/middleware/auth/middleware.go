package auth

import "time"

type contextKey struct{ name string }

var (
	userCtxKey = &contextKey{"user"}
	slotCtxKey = &contextKey{"user-slot"}
)

type Middleware struct {
	adminRole string
	devBypass bool

	// Bearer token verification (HS256)
	secret   []byte
	issuer   string
	audience string
	leeway   time.Duration
}

// Options configures a Middleware directly (tests, non-fx callers).
type Options struct {
	Secret    []byte
	Issuer    string
	Audience  string
	AdminRole string
	DevBypass bool
	Leeway    time.Duration
}

func New(o Options) *Middleware {
	if o.Leeway <= 0 {
		o.Leeway = 60 * time.Second
	}
	return &Middleware{
		adminRole: o.AdminRole,
		devBypass: o.DevBypass,
		secret:    o.Secret,
		issuer:    o.Issuer,
		audience:  o.Audience,
		leeway:    o.Leeway,
	}
}
