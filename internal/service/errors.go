// Package service holds the business operations behind the HTTP API. Every
// mutating method loads the resource first, asks the policy package whether
// the actor may act on it, and only then writes.
package service

import (
	"errors"
	"fmt"

	domainerrors "github.com/penwellapp/penwell-server/internal/errors"
	"github.com/penwellapp/penwell-server/internal/store"
)

// translate converts store sentinels into domain errors. what names the
// resource in the message ("post", "category"). Anything else is wrapped and
// reaches the client as an internal error.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFoundf("%s not found", what)
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Conflictf("%s already exists", what)
	case errors.Is(err, store.ErrInvalidReference):
		return domainerrors.InvalidArgumentf("%s references a record that does not exist", what)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

func forbidden(action, what string) error {
	return domainerrors.Forbidden(fmt.Sprintf("not allowed to %s this %s", action, what))
}
