package handler

import (
	"github.com/KenTheWhale/unisew-partner/internal/partner/service"
	"github.com/gin-gonic/gin"
)

// PhaseHandler 工序目录接口
type PhaseHandler struct {
	svc *service.PhaseService
}

// NewPhaseHandler 创建工序处理器
func NewPhaseHandler(svc *service.PhaseService) *PhaseHandler {
	return &PhaseHandler{svc: svc}
}

// List GET /phases
func (h *PhaseHandler) List(c *gin.Context) {
	phases, err := h.svc.List(c.Request.Context(), GetPartnerID(c))
	if err != nil {
		InternalError(c, "获取工序目录失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": phases})
}

// Create POST /phases
func (h *PhaseHandler) Create(c *gin.Context) {
	var req service.CreatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	phase, err := h.svc.Create(c.Request.Context(), GetPartnerID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Created(c, phase)
}

// Update PUT /phases/:id
func (h *PhaseHandler) Update(c *gin.Context) {
	var req service.UpdatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	phase, err := h.svc.Update(c.Request.Context(), GetPartnerID(c), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, phase)
}

// Delete DELETE /phases/:id
func (h *PhaseHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetPartnerID(c), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, nil)
}
