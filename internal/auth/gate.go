// Package auth decides whether a caller may see and check out a cart.
package auth

import "github.com/nikolayk812/bookcart/internal/domain"

const (
	CheckoutPath = "/checkout"
	LoginPath    = "/login"
)

// CanShowCart is true only for an authenticated session with a known user.
func CanShowCart(a domain.Auth) bool {
	return a.IsAuthenticated && a.User != nil
}

// CheckoutRoute returns where a checkout click should lead. Callers must pass the
// current auth state, not a cached one.
func CheckoutRoute(a domain.Auth) string {
	if CanShowCart(a) {
		return CheckoutPath
	}
	return LoginPath
}
