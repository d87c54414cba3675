package service

import "m-cosmetics/internal/domain"

// Authorize admits staff and superusers. Anonymous actors get
// domain.ErrUnauthenticated, signed-in customers domain.ErrForbidden.
func Authorize(actor *domain.Actor) error {
	if !actor.IsAuthenticated() {
		return domain.ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// RequireAuthenticated admits any signed-in actor
func RequireAuthenticated(actor *domain.Actor) error {
	if !actor.IsAuthenticated() {
		return domain.ErrUnauthenticated
	}
	return nil
}
