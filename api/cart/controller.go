// Package cart exposes the cart snapshot and the login-time cart transfer.
package cart

import (
	"checkout/api/ctxutil"
	"checkout/api/response"
	cartapp "checkout/application/cart"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	cartService *cartapp.ApplicationService
}

func NewController(cartService *cartapp.ApplicationService) *Controller {
	return &Controller{cartService: cartService}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	carts := router.Group("/cart")
	{
		carts.GET("", c.GetCart)
		carts.POST("/transfer", c.TransferCart)
	}
}

// GetCart GET /api/v1/cart
func (c *Controller) GetCart(ctx *gin.Context) {
	resp, err := c.cartService.GetCart(ctx.Request.Context(), ctxutil.UserID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, resp, "Cart retrieved.")
}

// TransferCart POST /api/v1/cart/transfer
func (c *Controller) TransferCart(ctx *gin.Context) {
	var req cartapp.TransferCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	resp, err := c.cartService.TransferCart(ctx.Request.Context(), ctxutil.UserID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, resp, "Cart transferred.")
}
