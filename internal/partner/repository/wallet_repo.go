package repository

import (
	"context"
	"errors"

	"github.com/KenTheWhale/unisew-partner/internal/partner/entity"
	"gorm.io/gorm"
)

// WalletRepository 钱包仓库
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository 创建钱包仓库
func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// FindByPartner 获取合作方钱包
func (r *WalletRepository) FindByPartner(ctx context.Context, partnerID string) (*entity.Wallet, error) {
	var wallet entity.Wallet
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

// Create 创建钱包
func (r *WalletRepository) Create(ctx context.Context, wallet *entity.Wallet) error {
	return r.db.WithContext(ctx).Create(wallet).Error
}

// Update 更新钱包（收款账户）
func (r *WalletRepository) Update(ctx context.Context, wallet *entity.Wallet) error {
	return r.db.WithContext(ctx).Save(wallet).Error
}

// ListTransactions 钱包流水分页
func (r *WalletRepository) ListTransactions(ctx context.Context, walletID string, page, pageSize int) ([]entity.WalletTransaction, int64, error) {
	var txs []entity.WalletTransaction
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.WalletTransaction{}).
		Where("wallet_id = ?", walletID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&txs).Error
	return txs, total, err
}

// Credit 入账：单事务内更新余额并写流水
func (r *WalletRepository) Credit(ctx context.Context, walletID string, tx *entity.WalletTransaction) error {
	return r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var wallet entity.Wallet
		if err := db.Where("id = ?", walletID).First(&wallet).Error; err != nil {
			return err
		}
		wallet.Balance += tx.Amount
		tx.WalletID = walletID
		tx.Type = entity.TransactionTypeCredit
		tx.Balance = wallet.Balance
		if err := db.Save(&wallet).Error; err != nil {
			return err
		}
		return db.Create(tx).Error
	})
}
