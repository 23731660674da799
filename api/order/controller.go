/*
Package order exposes checkout and order management over HTTP.

Binding failures answer 400 through response.HandleBindError; everything
returned by the application service goes through response.HandleAppError,
which maps it onto the error taxonomy.
*/
package order

import (
	"strconv"
	"time"

	"checkout/api/ctxutil"
	"checkout/api/response"
	orderapp "checkout/application/order"
	"checkout/pkg/errors"

	"github.com/gin-gonic/gin"
)

const statsDateLayout = "2006-01-02"

type Controller struct {
	orderService *orderapp.ApplicationService
}

func NewController(orderService *orderapp.ApplicationService) *Controller {
	return &Controller{orderService: orderService}
}

// RegisterRoutes registers the customer routes. The group must require a user.
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.POST("", c.CreateOrder)
		orders.POST("/confirm", c.ConfirmPayment)
		orders.GET("", c.ListOwnOrders)
		orders.GET("/addresses", c.GetPreviousAddress)
		orders.GET("/:id", c.GetOwnOrder)
	}
}

// RegisterAdminRoutes registers the back-office routes. The group must require an admin.
func (c *Controller) RegisterAdminRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.GET("", c.ListAllOrders)
		orders.GET("/stats", c.GetStats)
		orders.PUT("/status", c.ChangeOrderStatus)
		orders.GET("/:id", c.GetAnyOrder)
	}
}

// CreateOrder POST /api/v1/orders
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	resp, err := c.orderService.CreateOrder(ctx.Request.Context(), ctxutil.UserID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, resp, "Order created.")
}

// ConfirmPayment POST /api/v1/orders/confirm
func (c *Controller) ConfirmPayment(ctx *gin.Context) {
	var req orderapp.ConfirmPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	resp, err := c.orderService.ConfirmPayment(ctx.Request.Context(), ctxutil.UserID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, resp, "Payment confirmed.")
}

// ListOwnOrders GET /api/v1/orders?query=&page=
func (c *Controller) ListOwnOrders(ctx *gin.Context) {
	c.listOrders(ctx, ctxutil.UserID(ctx))
}

// ListAllOrders GET /api/v1/admin/orders?query=&page=
func (c *Controller) ListAllOrders(ctx *gin.Context) {
	c.listOrders(ctx, 0)
}

func (c *Controller) listOrders(ctx *gin.Context, userID int64) {
	page := 1
	if raw := ctx.Query("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			response.HandleBindError(ctx, err)
			return
		}
		page = p
	}

	result, err := c.orderService.GetOrders(ctx.Request.Context(), ctx.Query("query"), page, userID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandlePaginated(ctx, result.Data, response.Pagination{
		Page:       result.CurrentPage,
		PageSize:   result.PerPage,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	}, "Orders retrieved.")
}

// GetOwnOrder GET /api/v1/orders/:id
func (c *Controller) GetOwnOrder(ctx *gin.Context) {
	c.getOrder(ctx, ctxutil.UserID(ctx))
}

// GetAnyOrder GET /api/v1/admin/orders/:id
func (c *Controller) GetAnyOrder(ctx *gin.Context) {
	c.getOrder(ctx, 0)
}

func (c *Controller) getOrder(ctx *gin.Context, userID int64) {
	orderID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || orderID <= 0 {
		response.HandleAppError(ctx, errors.InvalidRequest("order id must be a positive integer"))
		return
	}

	detail, err := c.orderService.GetOrder(ctx.Request.Context(), orderID, userID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, detail, "Order retrieved.")
}

// GetPreviousAddress GET /api/v1/orders/addresses
func (c *Controller) GetPreviousAddress(ctx *gin.Context) {
	addresses, err := c.orderService.GetPreviousAddress(ctx.Request.Context(), ctxutil.UserID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, addresses, "Addresses retrieved.")
}

// ChangeOrderStatus PUT /api/v1/admin/orders/status
func (c *Controller) ChangeOrderStatus(ctx *gin.Context) {
	var req orderapp.ChangeOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	resp, err := c.orderService.ChangeOrderStatus(ctx.Request.Context(), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, resp, "Order status updated.")
}

// GetStats GET /api/v1/admin/orders/stats?start=YYYY-MM-DD&end=YYYY-MM-DD
// Without a range the last 30 days are counted.
func (c *Controller) GetStats(ctx *gin.Context) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if raw := ctx.Query("start"); raw != "" {
		t, err := time.ParseInLocation(statsDateLayout, raw, time.Local)
		if err != nil {
			response.HandleAppError(ctx, errors.InvalidRequest("start must be YYYY-MM-DD"))
			return
		}
		start = t
	}
	if raw := ctx.Query("end"); raw != "" {
		t, err := time.ParseInLocation(statsDateLayout, raw, time.Local)
		if err != nil {
			response.HandleAppError(ctx, errors.InvalidRequest("end must be YYYY-MM-DD"))
			return
		}
		end = t.Add(24*time.Hour - time.Nanosecond)
	}

	stats, err := c.orderService.GetStats(ctx.Request.Context(), start, end)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, stats, "Stats retrieved.")
}
