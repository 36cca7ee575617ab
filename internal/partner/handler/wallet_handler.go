package handler

import (
	"github.com/KenTheWhale/unisew-partner/internal/partner/service"
	"github.com/gin-gonic/gin"
)

// WalletHandler 钱包接口
type WalletHandler struct {
	svc *service.WalletService
}

// NewWalletHandler 创建钱包处理器
func NewWalletHandler(svc *service.WalletService) *WalletHandler {
	return &WalletHandler{svc: svc}
}

// Get GET /wallet
func (h *WalletHandler) Get(c *gin.Context) {
	wallet, err := h.svc.GetWallet(c.Request.Context(), GetPartnerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, wallet)
}

// ListTransactions GET /wallet/transactions
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	page, pageSize := GetPagination(c)
	txs, total, err := h.svc.ListTransactions(c.Request.Context(), GetPartnerID(c), page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, ListResponse{
		Items:      txs,
		Pagination: NewPagination(page, pageSize, total),
	})
}

// UpdateBank PUT /wallet/bank
func (h *WalletHandler) UpdateBank(c *gin.Context) {
	var req service.UpdateBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	wallet, err := h.svc.UpdateBankAccount(c.Request.Context(), GetPartnerID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Success(c, wallet)
}

// ListBanks GET /banks
func (h *WalletHandler) ListBanks(c *gin.Context) {
	banks, err := h.svc.ListBanks(c.Request.Context())
	if err != nil {
		InternalError(c, "获取银行目录失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": banks})
}
