package middleware

import (
	"github.com/gin-gonic/gin"

	"folio/internal/core/account"
	"folio/internal/core/apperror"
	appctx "folio/internal/core/context"
	"folio/internal/core/id"
)

// AccountScope resolves the account from the validated token claim and
// stores it in request context. Every repository reads the account from
// there, so this middleware must run after Auth on all data routes.
func AccountScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			abortUnauthorized(c, "authentication required")
			return
		}

		accountID, err := id.Parse(user.AccountID)
		if err != nil || id.IsNil(accountID) {
			_ = c.Error(apperror.NewUnauthorized("token carries no account").
				WithDetail("account_id", user.AccountID))
			c.Abort()
			return
		}

		ctx := account.WithID(c.Request.Context(), accountID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
