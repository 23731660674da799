// Package ctxutil moves request scoped values between gin and context.Context.
package ctxutil

import (
	"context"

	"checkout/api/response"
	"checkout/infrastructure/persistence"
	"checkout/pkg/auth"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// WithRequestID returns the request context carrying the gin request id.
func WithRequestID(ctx *gin.Context) context.Context {
	requestID := response.GetRequestID(ctx)
	return persistence.ContextWithRequestID(ctx.Request.Context(), requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	return persistence.RequestIDFromContext(ctx)
}

func SetIdentity(ctx *gin.Context, id *auth.Identity) {
	ctx.Set(identityKey, id)
}

// Identity returns the caller authenticated by the auth middleware.
func Identity(ctx *gin.Context) (*auth.Identity, bool) {
	v, ok := ctx.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*auth.Identity)
	return id, ok && id != nil
}

// UserID is zero for unauthenticated requests.
func UserID(ctx *gin.Context) int64 {
	if id, ok := Identity(ctx); ok {
		return id.UserID
	}
	return 0
}
