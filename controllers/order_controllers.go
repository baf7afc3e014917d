package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodiehub/services"
	"github.com/yeremiapane/foodiehub/utils"
)

// OrderController exposes the order API used by the storefront checkout
// and by the admin panel.
type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.Orders.Get(c.Request.Context(), id)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

func (oc *OrderController) GetOrdersByUser(c *gin.Context) {
	orders, err := oc.Orders.ListByUser(c.Request.Context(), c.Param("user_name"))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders of user", orders)
}

func (oc *OrderController) GetOrdersByEmail(c *gin.Context) {
	orders, err := oc.Orders.ListByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders of email", orders)
}

func (oc *OrderController) GetOrdersByStatus(c *gin.Context) {
	orders, err := oc.Orders.ListByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders by status", orders)
}

func (oc *OrderController) GetOrdersByMenuItem(c *gin.Context) {
	id, ok := parseID(c, "menu_id")
	if !ok {
		return
	}
	orders, err := oc.Orders.ListByMenuItem(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders of menu item", orders)
}

func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.Create(c.Request.Context(), req)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	var req services.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.Update(c.Request.Context(), id, req)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdateStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	if err := oc.Orders.Delete(c.Request.Context(), id); err != nil {
		respondOrderError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", nil)
}

func respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrMenuItemNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrInvalidOrder):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.ErrorLogger.Printf("order api: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid "+param))
		return 0, false
	}
	return uint(id), true
}
