package handler

import (
	"github.com/KenTheWhale/unisew-partner/internal/partner/schedule"
	"github.com/KenTheWhale/unisew-partner/internal/partner/service"
	"github.com/gin-gonic/gin"
)

// MilestoneHandler 生产里程碑排期接口
type MilestoneHandler struct {
	svc *service.MilestoneService
}

// NewMilestoneHandler 创建里程碑处理器
func NewMilestoneHandler(svc *service.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{svc: svc}
}

// windowPayload 窗口响应。时效解析失败时降级为兜底窗口并附提示。
func windowPayload(result *service.WindowResult) gin.H {
	payload := gin.H{
		"window":         result.Window,
		"lead_time_days": result.LeadTimeDays,
	}
	if result.ResolveErr != nil {
		payload["lead_time_warning"] = result.ResolveErr.Error()
	}
	return payload
}

// GetLeadTime GET /orders/:id/milestone/leadtime
// 显式刷新物流时效预估
func (h *MilestoneHandler) GetLeadTime(c *gin.Context) {
	days, err := h.svc.GetLeadTime(c.Request.Context(), GetPartnerID(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, gin.H{"lead_time_days": days})
}

// GetWindow GET /orders/:id/milestone/window
func (h *MilestoneHandler) GetWindow(c *gin.Context) {
	result, err := h.svc.GetWindow(c.Request.Context(), GetPartnerID(c), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, windowPayload(result))
}

// BuildDraft POST /orders/:id/milestone/draft
func (h *MilestoneHandler) BuildDraft(c *gin.Context) {
	var req struct {
		PhaseIDs []string `json:"phase_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	stages, result, err := h.svc.BuildDraft(c.Request.Context(), GetPartnerID(c), c.Param("id"), req.PhaseIDs)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	payload := windowPayload(result)
	payload["stages"] = stages
	Success(c, payload)
}

// stageInput 排期提交的阶段项
type stageInput struct {
	PhaseID string        `json:"phase_id" binding:"required"`
	Ordinal int           `json:"stage" binding:"required,min=1"`
	Start   schedule.Date `json:"start_date" binding:"required"`
	End     schedule.Date `json:"end_date" binding:"required"`
}

func toStages(inputs []stageInput) []schedule.Stage {
	stages := make([]schedule.Stage, len(inputs))
	for i, in := range inputs {
		stages[i] = schedule.Stage{
			PhaseID: in.PhaseID,
			Ordinal: in.Ordinal,
			Start:   in.Start,
			End:     in.End,
		}
	}
	return stages
}

// Reorder POST /orders/:id/milestone/reorder
// 草稿内移动阶段，纯计算不落库
func (h *MilestoneHandler) Reorder(c *gin.Context) {
	var req struct {
		Stages []stageInput `json:"stages" binding:"required,min=1,dive"`
		From   int          `json:"from"`
		To     int          `json:"to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	moved, err := h.svc.ReorderDraft(toStages(req.Stages), req.From, req.To)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, gin.H{"stages": moved})
}

// Assign POST /orders/:id/milestone
// 整体提交阶段序列：校验通过才写入，单事务全有或全无
func (h *MilestoneHandler) Assign(c *gin.Context) {
	var req struct {
		Stages []stageInput `json:"stages" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	result, err := h.svc.AssignMilestone(c.Request.Context(), GetPartnerID(c), c.Param("id"), toStages(req.Stages))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Created(c, windowPayload(result))
}

// UpdateStageStatus PATCH /milestone/stages/:stageId/status
func (h *MilestoneHandler) UpdateStageStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required,oneof=processing completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	stage, err := h.svc.UpdateStageStatus(c.Request.Context(), GetPartnerID(c), c.Param("stageId"), req.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, stage)
}
