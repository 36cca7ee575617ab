package entity

import (
	"time"
)

// Phase 生产工序模板（如"裁剪"），工厂级目录，不绑定具体订单
type Phase struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	PartnerID   string `json:"partner_id" gorm:"size:32;not null;index"`
	Name        string `json:"name" gorm:"size:64;not null"`
	Description string `json:"description" gorm:"type:text"`
	Sequence    int    `json:"sequence" gorm:"not null;default:0"` // 目录展示顺序

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

func (Phase) TableName() string {
	return "phases"
}
