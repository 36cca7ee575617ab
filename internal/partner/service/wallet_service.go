package service

import (
	"context"
	"fmt"

	"github.com/KenTheWhale/unisew-partner/internal/partner/entity"
	"github.com/KenTheWhale/unisew-partner/internal/partner/repository"
	"github.com/KenTheWhale/unisew-partner/internal/shared/vietqr"
)

// WalletService 钱包服务：余额、流水与收款账户
type WalletService struct {
	walletRepo *repository.WalletRepository
	banks      *vietqr.Client
}

// NewWalletService 创建钱包服务
func NewWalletService(walletRepo *repository.WalletRepository, banks *vietqr.Client) *WalletService {
	return &WalletService{walletRepo: walletRepo, banks: banks}
}

// GetWallet 获取钱包
func (s *WalletService) GetWallet(ctx context.Context, partnerID string) (*entity.Wallet, error) {
	return s.walletRepo.FindByPartner(ctx, partnerID)
}

// ListTransactions 钱包流水分页
func (s *WalletService) ListTransactions(ctx context.Context, partnerID string, page, pageSize int) ([]entity.WalletTransaction, int64, error) {
	wallet, err := s.walletRepo.FindByPartner(ctx, partnerID)
	if err != nil {
		return nil, 0, err
	}
	return s.walletRepo.ListTransactions(ctx, wallet.ID, page, pageSize)
}

// UpdateBankRequest 收款账户更新请求
type UpdateBankRequest struct {
	BankBIN     string `json:"bank_bin" binding:"required"`
	BankAccount string `json:"bank_account" binding:"required,max=32"`
	BankHolder  string `json:"bank_holder" binding:"required,max=128"`
}

// UpdateBankAccount 更新收款账户。BIN须存在于VietQR银行目录。
func (s *WalletService) UpdateBankAccount(ctx context.Context, partnerID string, req *UpdateBankRequest) (*entity.Wallet, error) {
	banks, err := s.banks.ListBanks(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取银行目录失败: %w", err)
	}
	valid := false
	for _, b := range banks {
		if b.BIN == req.BankBIN {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("未知银行BIN: %s", req.BankBIN)
	}

	wallet, err := s.walletRepo.FindByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	wallet.BankBIN = req.BankBIN
	wallet.BankAccount = req.BankAccount
	wallet.BankHolder = req.BankHolder
	if err := s.walletRepo.Update(ctx, wallet); err != nil {
		return nil, fmt.Errorf("更新收款账户失败: %w", err)
	}
	return wallet, nil
}

// ListBanks 银行目录
func (s *WalletService) ListBanks(ctx context.Context) ([]vietqr.Bank, error) {
	return s.banks.ListBanks(ctx)
}

// CreditOrder 订单完工入账：金额为订单价款，单事务写余额与流水
func (s *WalletService) CreditOrder(ctx context.Context, partnerID string, order *entity.Order) error {
	wallet, err := s.walletRepo.FindByPartner(ctx, partnerID)
	if err != nil {
		return err
	}
	tx := &entity.WalletTransaction{
		ID:      generateID(),
		OrderID: &order.ID,
		Amount:  order.Price,
		Note:    fmt.Sprintf("订单%s完工结算", order.Code),
	}
	return s.walletRepo.Credit(ctx, wallet.ID, tx)
}
