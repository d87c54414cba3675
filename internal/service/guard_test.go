package service

import (
	"errors"
	"testing"

	"m-cosmetics/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name  string
		actor *domain.Actor
		want  error
	}{
		{name: "nil actor", actor: nil, want: domain.ErrUnauthenticated},
		{name: "anonymous", actor: domain.Anonymous(), want: domain.ErrUnauthenticated},
		{name: "customer", actor: &domain.Actor{User: &domain.User{ID: 1}}, want: domain.ErrForbidden},
		{name: "staff", actor: &domain.Actor{User: &domain.User{ID: 2, IsStaff: true}}, want: nil},
		{name: "superuser", actor: &domain.Actor{User: &domain.User{ID: 3, IsSuperuser: true}}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Authorize(tt.actor); !errors.Is(err, tt.want) {
				t.Errorf("Authorize() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestProperty_GuardAdmitsOnlyStaff(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("Authorize succeeds exactly for authenticated staff or superusers", prop.ForAll(
		func(authenticated, staff, superuser bool) bool {
			actor := domain.Anonymous()
			if authenticated {
				actor = &domain.Actor{User: &domain.User{ID: 1, IsStaff: staff, IsSuperuser: superuser}}
			}

			err := Authorize(actor)
			switch {
			case !authenticated:
				return errors.Is(err, domain.ErrUnauthenticated)
			case staff || superuser:
				return err == nil
			default:
				return errors.Is(err, domain.ErrForbidden)
			}
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
