package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 仓库集合
type Repositories struct {
	Partner   *PartnerRepository
	Phase     *PhaseRepository
	Order     *OrderRepository
	Milestone *MilestoneRepository
	Wallet    *WalletRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Partner:   NewPartnerRepository(db),
		Phase:     NewPhaseRepository(db),
		Order:     NewOrderRepository(db),
		Milestone: NewMilestoneRepository(db),
		Wallet:    NewWalletRepository(db),
	}
}
