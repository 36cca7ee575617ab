package handler

import (
	"strconv"

	"github.com/KenTheWhale/unisew-partner/internal/partner/service"
	"github.com/gin-gonic/gin"
)

// ShippingHandler GHN物流接口
type ShippingHandler struct {
	svc        *service.ShippingService
	profileSvc *service.ProfileService
}

// NewShippingHandler 创建物流处理器。运费预估需经档案服务取工厂发货地址。
func NewShippingHandler(svc *service.ShippingService, profileSvc *service.ProfileService) *ShippingHandler {
	return &ShippingHandler{svc: svc, profileSvc: profileSvc}
}

// Provinces GET /shipping/provinces
func (h *ShippingHandler) Provinces(c *gin.Context) {
	provinces, err := h.svc.Provinces(c.Request.Context())
	if err != nil {
		InternalError(c, "获取省列表失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": provinces})
}

// Districts GET /shipping/districts?province_id=xxx
func (h *ShippingHandler) Districts(c *gin.Context) {
	provinceID, err := strconv.Atoi(c.Query("province_id"))
	if err != nil || provinceID <= 0 {
		BadRequest(c, "province_id无效")
		return
	}

	districts, err := h.svc.Districts(c.Request.Context(), provinceID)
	if err != nil {
		InternalError(c, "获取郡县列表失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": districts})
}

// Wards GET /shipping/wards?district_id=xxx
func (h *ShippingHandler) Wards(c *gin.Context) {
	districtID, err := strconv.Atoi(c.Query("district_id"))
	if err != nil || districtID <= 0 {
		BadRequest(c, "district_id无效")
		return
	}

	wards, err := h.svc.Wards(c.Request.Context(), districtID)
	if err != nil {
		InternalError(c, "获取坊社列表失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": wards})
}

// EstimateFee POST /shipping/fee
func (h *ShippingHandler) EstimateFee(c *gin.Context) {
	var req service.EstimateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	partner, err := h.profileSvc.Get(c.Request.Context(), GetPartnerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	fee, err := h.svc.EstimateFee(c.Request.Context(), partner.ShippingUID,
		partner.DistrictID, partner.WardCode, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, fee)
}
