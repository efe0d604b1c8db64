// Package visibility decides which secret notes a viewer may see or change.
//
// Every rule takes a single fact, whether the request carries an
// authenticated session, and the secret flags of the records involved. The
// package holds no state and performs no I/O: callers fetch the stored row
// first and pass its flag in.
package visibility

import (
	"context"

	"dashboard/pkg/apperror"
)

type Viewer struct {
	Authenticated bool
	Subject       string
}

// Anonymous is the viewer of a request without a valid session.
var Anonymous = Viewer{}

type ctxKey struct{}

func WithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, ctxKey{}, v)
}

// FromContext returns the viewer stored by the session middleware, or
// Anonymous when there is none.
func FromContext(ctx context.Context) Viewer {
	if v, ok := ctx.Value(ctxKey{}).(Viewer); ok {
		return v
	}
	return Anonymous
}

// IncludeSecret reports whether list queries may return secret rows.
func IncludeSecret(v Viewer) bool {
	return v.Authenticated
}

func CanView(v Viewer, storedSecret bool) error {
	if storedSecret && !v.Authenticated {
		return apperror.Forbidden("Unauthorized to view secret note")
	}
	return nil
}

func CanCreate(v Viewer, requestedSecret bool) error {
	if requestedSecret && !v.Authenticated {
		return apperror.Forbidden("You must be logged in to create secret notes")
	}
	return nil
}

// CanUpdate rejects anonymous callers when either the stored or the requested
// state is secret, so an anonymous update can neither read a secret note back
// nor clear its flag.
func CanUpdate(v Viewer, storedSecret, requestedSecret bool) error {
	if (storedSecret || requestedSecret) && !v.Authenticated {
		return apperror.Forbidden("Unauthorized to update secret note")
	}
	return nil
}

// CanDelete only looks at the stored row; whatever the client asserts is ignored.
func CanDelete(v Viewer, storedSecret bool) error {
	if storedSecret && !v.Authenticated {
		return apperror.Forbidden("Unauthorized to delete secret note")
	}
	return nil
}

// Filter drops the items a viewer may not see. secret reports an item's flag.
func Filter[T any](v Viewer, items []T, secret func(T) bool) []T {
	if v.Authenticated {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !secret(item) {
			out = append(out, item)
		}
	}
	return out
}
