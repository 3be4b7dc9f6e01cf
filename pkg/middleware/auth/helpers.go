package auth

import "context"

func (m *Middleware) GetUser(ctx context.Context) User {
	if user, ok := ctx.Value(userCtxKey).(User); ok {
		return user
	}
	if s, ok := ctx.Value(slotCtxKey).(*userSlot); ok {
		return s.u
	}
	return User{}
}

func (m *Middleware) IsAuthenticated(ctx context.Context) bool {
	return m.GetUser(ctx).Username != ""
}

func (m *Middleware) IsAdmin(ctx context.Context) bool {
	return m.adminRole != "" && m.GetUser(ctx).Role.Name == m.adminRole
}

// HasRole is true for the admin role or any of roles.
func (m *Middleware) HasRole(ctx context.Context, roles ...string) bool {
	u := m.GetUser(ctx)
	if u.Username == "" {
		return false
	}
	if m.IsAdmin(ctx) {
		return true
	}
	for _, r := range roles {
		if r != "" && u.Role.Name == r {
			return true
		}
	}
	return false
}

func (m *Middleware) AdminRole() string { return m.adminRole }
