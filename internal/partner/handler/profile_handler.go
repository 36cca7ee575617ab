package handler

import (
	"errors"

	"github.com/KenTheWhale/unisew-partner/internal/partner/service"
	"github.com/gin-gonic/gin"
)

// maxAvatarSize 头像上限5MB
const maxAvatarSize = 5 << 20

// ProfileHandler 工厂档案接口
type ProfileHandler struct {
	svc *service.ProfileService
}

// NewProfileHandler 创建档案处理器
func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Get GET /profile
func (h *ProfileHandler) Get(c *gin.Context) {
	partner, err := h.svc.Get(c.Request.Context(), GetPartnerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, gin.H{"partner": partner})
}

// Update PUT /profile
func (h *ProfileHandler) Update(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	partner, err := h.svc.Update(c.Request.Context(), GetPartnerID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, gin.H{"partner": partner})
}

// UploadAvatar POST /profile/avatar
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "缺少上传文件")
		return
	}
	if file.Size > maxAvatarSize {
		BadRequest(c, "文件超过5MB上限")
		return
	}

	src, err := file.Open()
	if err != nil {
		InternalError(c, "读取上传文件失败: "+err.Error())
		return
	}
	defer src.Close()

	partner, err := h.svc.UploadAvatar(c.Request.Context(), GetPartnerID(c),
		file.Filename, file.Header.Get("Content-Type"), file.Size, src)
	if err != nil {
		if errors.Is(err, service.ErrStorageUnavailable) {
			Error(c, 50300, err.Error())
			return
		}
		handleServiceError(c, err)
		return
	}
	Success(c, gin.H{"partner": partner})
}
