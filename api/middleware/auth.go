package middleware

import (
	"checkout/api/ctxutil"
	"checkout/api/response"
	"checkout/pkg/auth"
	"checkout/pkg/errors"

	"github.com/gin-gonic/gin"
)

// TokenParser verifies a bearer token.
type TokenParser interface {
	Parse(raw string) (*auth.Identity, error)
}

// RequireUser rejects requests without a valid bearer token.
func RequireUser(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := tokens.Parse(auth.BearerToken(c.GetHeader("Authorization")))
		if err != nil {
			response.Abort(c, errors.Wrap(err, errors.CodeUnauthorized, ""))
			return
		}
		ctxutil.SetIdentity(c, id)
		c.Next()
	}
}

// RequireAdmin runs after RequireUser and additionally requires the admin claim.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := ctxutil.Identity(c)
		if !ok {
			response.Abort(c, errors.Unauthorized(""))
			return
		}
		if !id.Admin {
			response.Abort(c, errors.Wrap(auth.ErrNotAdmin, errors.CodeForbidden, ""))
			return
		}
		c.Next()
	}
}
