package handler

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/KenTheWhale/unisew-partner/internal/partner/repository"
	"github.com/KenTheWhale/unisew-partner/internal/partner/schedule"
	"github.com/KenTheWhale/unisew-partner/internal/partner/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Handlers 处理器集合
type Handlers struct {
	Auth      *AuthHandler
	Phase     *PhaseHandler
	Order     *OrderHandler
	Milestone *MilestoneHandler
	Wallet    *WalletHandler
	Profile   *ProfileHandler
	Shipping  *ShippingHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:      NewAuthHandler(svc.Auth, svc.Registration),
		Phase:     NewPhaseHandler(svc.Phase),
		Order:     NewOrderHandler(svc.Order),
		Milestone: NewMilestoneHandler(svc.Milestone),
		Wallet:    NewWalletHandler(svc.Wallet),
		Profile:   NewProfileHandler(svc.Profile),
		Shipping:  NewShippingHandler(svc.Shipping, svc.Profile),
	}
}

// 越南企业税号：10位，或10位加3位分支号
var taxCodePattern = regexp.MustCompile(`^\d{10}(-?\d{3})?$`)

// RegisterValidators 注册自定义binding校验器
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("taxcode", func(fl validator.FieldLevel) bool {
			return taxCodePattern.MatchString(fl.Field().String())
		})
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse 列表响应结构
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// NewPagination 组装分页信息
func NewPagination(page, pageSize int, total int64) *Pagination {
	totalPages := total / int64(pageSize)
	if total%int64(pageSize) > 0 {
		totalPages++
	}
	return &Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithData 错误响应并附带结构化数据（校验违规明细等）
func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

// Forbidden 禁止访问响应
func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// Conflict 业务冲突响应
func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// handleServiceError 业务错误统一映射
func handleServiceError(c *gin.Context, err error) {
	var violations schedule.Violations
	var subErr *service.SubmissionError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "资源不存在")
	case errors.Is(err, service.ErrNotOwner):
		Forbidden(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrConfirmTokenInvalid):
		Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrPartnerNotActive):
		Forbidden(c, err.Error())
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrTaxCodeTaken),
		errors.Is(err, service.ErrPhaseInUse),
		errors.Is(err, service.ErrOrderNotSchedulable),
		errors.Is(err, service.ErrStageTransition):
		Conflict(c, err.Error())
	case errors.Is(err, service.ErrShippingUIDMissing),
		errors.Is(err, service.ErrSchoolAddressMissing):
		// 配置类错误：不可重试，需补全配置
		Error(c, 40001, err.Error())
	case errors.As(err, &violations):
		ErrorWithData(c, 40002, "排期校验未通过", gin.H{"violations": violations})
	case errors.As(err, &subErr):
		// 原子提交失败，客户端数据保留可重试
		Error(c, 50001, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// GetPartnerID 从上下文获取当前合作方ID
func GetPartnerID(c *gin.Context) string {
	pid, _ := c.Get("partner_id")
	if id, ok := pid.(string); ok {
		return id
	}
	return ""
}

// GetPagination 从请求获取分页参数
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
