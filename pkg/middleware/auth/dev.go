package auth

import "net/http"

const devProvider = "dev"

// devUserFromHeaders reads X-Dev-User / X-Dev-Role; only consulted when the
// bypass is on.
func devUserFromHeaders(r *http.Request) User {
	user := r.Header.Get("X-Dev-User")
	if user == "" {
		return User{}
	}
	return User{
		Username:             user,
		AuthenticationSource: AuthenticationSource{Provider: devProvider},
		Role:                 Role{Name: r.Header.Get("X-Dev-Role")},
	}
}
