package http

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/domain"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	orders  *services.OrderService
	coupons *services.CouponService
	carts   *services.CartService
}

func NewHandler(orders *services.OrderService, coupons *services.CouponService, carts *services.CartService) *Handler {
	return &Handler{orders: orders, coupons: coupons, carts: carts}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.POST("/orders", h.PlaceOrder)
	r.GET("/orders/:id", h.GetOrder)
	r.PATCH("/orders/:id/status", h.UpdateOrderStatus)
	r.GET("/users/:userId/orders", h.ListOrders)
	r.GET("/users/:userId/cart", h.ListCart)
	r.POST("/users/:userId/cart", h.AddCartLine)
	r.DELETE("/users/:userId/cart/:id", h.RemoveCartLine)
	r.GET("/products/:id", h.GetProduct)
	r.POST("/coupons/redeem", h.RedeemCoupon)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{ErrorKind: "validation", Message: err.Error()})
		return
	}

	lines := make([]domain.RequestedLine, 0, len(req.Lines))
	for _, ln := range req.Lines {
		lines = append(lines, domain.RequestedLine{
			CartLineID:    ln.CartRowID,
			ProductID:     ln.ProductID,
			Quantity:      ln.Quantity,
			SelectedSize:  ln.SelectedSize,
			SelectedColor: ln.SelectedColor,
		})
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), services.PlaceOrderInput{
		UserID: req.UserID,
		Flow:   domain.OrderFlow(req.Flow),
		Lines:  lines,
		ShippingAddress: domain.ShippingAddress{
			Line1:   req.ShippingAddress.Line1,
			Line2:   req.ShippingAddress.Line2,
			City:    req.ShippingAddress.City,
			State:   req.ShippingAddress.State,
			Pincode: req.ShippingAddress.Pincode,
			Country: req.ShippingAddress.Country,
			Phone:   req.ShippingAddress.Phone,
		},
		PaymentMethod:  req.PaymentMethod,
		PaymentDetails: string(req.PaymentDetails),
		DeclaredTotal:  req.DeclaredTotal,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, PlaceOrderResponse{OrderID: order.ID})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{ErrorKind: "validation", Message: "invalid order id"})
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{ErrorKind: "validation", Message: "invalid order id"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{ErrorKind: "validation", Message: err.Error()})
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), id, domain.OrderStatus(req.Status)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order status updated"})
}

func (h *Handler) ListOrders(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{ErrorKind: "validation", Message: "invalid user id"})
		return
	}

	orders, err := h.orders.ListOrdersByUser(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) ListCart(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{ErrorKind: "validation", Message: "invalid user id"})
		return
	}

	lines, err := h.carts.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (h *Handler) AddCartLine(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{ErrorKind: "validation", Message: "invalid user id"})
		return
	}

	var req AddCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{ErrorKind: "validation", Message: err.Error()})
		return
	}

	line := &domain.CartLine{
		UserID:        userID,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		SelectedSize:  req.SelectedSize,
		SelectedColor: req.SelectedColor,
	}
	if err := h.carts.AddLine(c.Request.Context(), line); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

func (h *Handler) RemoveCartLine(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{ErrorKind: "validation", Message: "invalid user id"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{ErrorKind: "validation", Message: "invalid cart line id"})
		return
	}

	if err := h.carts.RemoveLine(c.Request.Context(), id, userID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart line removed"})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{ErrorKind: "validation", Message: "invalid product id"})
		return
	}

	p, err := h.orders.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) RedeemCoupon(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{ErrorKind: "validation", Message: err.Error()})
		return
	}

	result, err := h.coupons.Redeem(c.Request.Context(), req.Code, req.OrderID, req.UserID, req.CartTotal)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), ErrorResponse{ErrorKind: kindFor(err), Message: err.Error()})
}

// Stock and usage races map to 409: the client should refresh inventory and
// resubmit rather than retry blindly.
func statusFor(err error) int {
	var ve *domain.ValidationError
	var stock *domain.InsufficientStockError
	var race *domain.StockRaceError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidCoupon),
		errors.Is(err, domain.ErrMinPurchaseNotMet):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotCartOwner):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrCartLineNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.As(err, &stock),
		errors.As(err, &race),
		errors.Is(err, domain.ErrUsageLimitReached):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func kindFor(err error) string {
	var ve *domain.ValidationError
	var stock *domain.InsufficientStockError
	var race *domain.StockRaceError
	switch {
	case errors.As(err, &stock):
		return "insufficient_stock"
	case errors.As(err, &race):
		return "stock_race"
	case errors.Is(err, domain.ErrUsageLimitReached):
		return "usage_limit_reached"
	case errors.Is(err, domain.ErrInvalidCoupon):
		return "invalid_coupon"
	case errors.Is(err, domain.ErrMinPurchaseNotMet):
		return "min_purchase_not_met"
	case errors.Is(err, domain.ErrNotCartOwner):
		return "ownership"
	case errors.Is(err, domain.ErrCartLineNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		return "not_found"
	case errors.As(err, &ve),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidStatus):
		return "validation"
	}
	return "internal"
}
