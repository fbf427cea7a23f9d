// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cacho-medina/luxbuy-back/internal/i18n"
	"github.com/cacho-medina/luxbuy-back/internal/services"
	"github.com/cacho-medina/luxbuy-back/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	order, err := h.orderService.Create(userID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderCreated),
		"order":   order,
	})
}

// GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.orderService.FindAll(params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	order, err := h.orderService.FindOne(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"order": order})
}
