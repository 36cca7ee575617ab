package handler

import (
	"github.com/KenTheWhale/unisew-partner/internal/partner/service"
	"github.com/gin-gonic/gin"
)

// OrderHandler 订单查询接口
type OrderHandler struct {
	svc *service.OrderService
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// List GET /orders?status=pending&page=1&page_size=20
func (h *OrderHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	orders, total, err := h.svc.List(c.Request.Context(), GetPartnerID(c), c.Query("status"), page, pageSize)
	if err != nil {
		InternalError(c, "获取订单列表失败: "+err.Error())
		return
	}
	Success(c, ListResponse{
		Items:      orders,
		Pagination: NewPagination(page, pageSize, total),
	})
}

// Get GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.svc.Get(c.Request.Context(), GetPartnerID(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, order)
}
