// Package account provides account (tenant) resolution for the shared-schema
// multi-tenant model. Every business row carries an account_id column and
// repositories scope all statements by the account stored in request context.
package account

import (
	"context"
	"fmt"

	"folio/internal/core/id"
)

type accountKey struct{}

// WithID stores the account ID in context. Called by HTTP middleware after
// the JWT claim is validated.
func WithID(ctx context.Context, accountID id.ID) context.Context {
	return context.WithValue(ctx, accountKey{}, accountID)
}

// GetID returns the account ID from context.
func GetID(ctx context.Context) (id.ID, error) {
	if v, ok := ctx.Value(accountKey{}).(id.ID); ok && !id.IsNil(v) {
		return v, nil
	}
	return id.Nil(), fmt.Errorf("account ID not found in context")
}

// MustGetID returns the account ID from context or panics.
// A missing account means the request bypassed the auth middleware chain,
// which is a programming error, not a runtime condition.
func MustGetID(ctx context.Context) id.ID {
	accountID, err := GetID(ctx)
	if err != nil {
		panic(err)
	}
	return accountID
}
