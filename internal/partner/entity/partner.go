package entity

import (
	"time"
)

// 合作方状态
const (
	PartnerStatusPending   = "pending"   // 待邮箱确认
	PartnerStatusActive    = "active"
	PartnerStatusSuspended = "suspended"
)

// Partner 合作方（服装工厂）
type Partner struct {
	ID           string `json:"id" gorm:"primaryKey;size:32"`
	Email        string `json:"email" gorm:"size:128;not null;uniqueIndex"`
	PasswordHash string `json:"-" gorm:"size:128;not null"`
	Name         string `json:"name" gorm:"size:128;not null"`
	Phone        string `json:"phone" gorm:"size:20"`
	Status       string `json:"status" gorm:"size:16;not null;default:pending"`
	Role         string `json:"role" gorm:"size:16;not null;default:partner"`

	// 工商登记（VietQR税号查验回填）
	TaxCode      string `json:"tax_code" gorm:"size:20;uniqueIndex"`
	BusinessName string `json:"business_name" gorm:"size:256"`

	// GHN发货档案：ShippingUID为GHN店铺ID，时效预估必需
	ShippingUID string `json:"shipping_uid" gorm:"size:32"`
	ProvinceID  int    `json:"province_id"`
	DistrictID  int    `json:"district_id"`
	WardCode    string `json:"ward_code" gorm:"size:16"`
	Address     string `json:"address" gorm:"size:256"`

	AvatarURL string `json:"avatar_url" gorm:"size:512"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" gorm:"index"`

	// 关联
	Wallet *Wallet `json:"wallet,omitempty" gorm:"foreignKey:PartnerID"`
}

func (Partner) TableName() string {
	return "partners"
}

// Wallet 合作方钱包
type Wallet struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	PartnerID string    `json:"partner_id" gorm:"size:32;not null;uniqueIndex"`
	Balance   int64     `json:"balance" gorm:"not null;default:0"` // VND

	// 收款账户（VietQR银行目录）
	BankBIN     string `json:"bank_bin" gorm:"size:8"`
	BankAccount string `json:"bank_account" gorm:"size:32"`
	BankHolder  string `json:"bank_holder" gorm:"size:128"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Transactions []WalletTransaction `json:"transactions,omitempty" gorm:"foreignKey:WalletID"`
}

func (Wallet) TableName() string {
	return "wallets"
}

// 钱包流水类型
const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)

// WalletTransaction 钱包流水
type WalletTransaction struct {
	ID       string  `json:"id" gorm:"primaryKey;size:32"`
	WalletID string  `json:"wallet_id" gorm:"size:32;not null;index"`
	OrderID  *string `json:"order_id" gorm:"size:32"`
	Type     string  `json:"type" gorm:"size:8;not null"`
	Amount   int64   `json:"amount" gorm:"not null"`
	Balance  int64   `json:"balance" gorm:"not null"` // 流水后余额
	Note     string  `json:"note" gorm:"size:256"`

	CreatedAt time.Time `json:"created_at"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
