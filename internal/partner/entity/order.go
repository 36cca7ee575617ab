package entity

import (
	"time"
)

// 订单状态
const (
	OrderStatusPending    = "pending"    // 待排期
	OrderStatusProcessing = "processing" // 生产中
	OrderStatusCompleted  = "completed"
	OrderStatusCanceled   = "canceled"
)

// Order 校服订单。Deadline与学校地址在排期期间不可变。
type Order struct {
	ID        string `json:"id" gorm:"primaryKey;size:32"`
	Code      string `json:"code" gorm:"size:64;not null;uniqueIndex"`
	PartnerID string `json:"partner_id" gorm:"size:32;not null;index"`
	Status    string `json:"status" gorm:"size:16;not null;default:pending"`

	// 学校（收货方）
	SchoolName     string `json:"school_name" gorm:"size:128;not null"`
	SchoolPhone    string `json:"school_phone" gorm:"size:20"`
	SchoolAddress  string `json:"school_address" gorm:"size:256"`
	SchoolDistrict int    `json:"school_district_id"`
	SchoolWardCode string `json:"school_ward_code" gorm:"size:16"`

	Deadline time.Time `json:"deadline" gorm:"type:date;not null"`
	Price    int64     `json:"price" gorm:"not null;default:0"` // VND
	Notes    string    `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Items     []OrderItem      `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	Milestone []MilestoneStage `json:"milestone,omitempty" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单行项（一种服装规格）
type OrderItem struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	OrderID     string `json:"order_id" gorm:"size:32;not null;index"`
	GarmentType string `json:"garment_type" gorm:"size:32;not null"` // shirt/pants/skirt
	Gender      string `json:"gender" gorm:"size:8"`
	Size        string `json:"size" gorm:"size:8"`
	Color       string `json:"color" gorm:"size:32"`
	Quantity    int    `json:"quantity" gorm:"not null"`
	LogoURL     string `json:"logo_url" gorm:"size:512"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// 生产阶段状态
const (
	StageStatusAssigned   = "assigned"
	StageStatusProcessing = "processing"
	StageStatusCompleted  = "completed"
)

// MilestoneStage 订单生产序列中的阶段槽位：工序实例 + 序号 + 日期。
// (order_id, stage)唯一，序号从1连续。
type MilestoneStage struct {
	ID      string `json:"id" gorm:"primaryKey;size:32"`
	OrderID string `json:"order_id" gorm:"size:32;not null;uniqueIndex:idx_milestone_order_stage"`
	PhaseID string `json:"phase_id" gorm:"size:32;not null"`
	Stage   int    `json:"stage" gorm:"not null;uniqueIndex:idx_milestone_order_stage"`
	Status  string `json:"status" gorm:"size:16;not null;default:assigned"`

	StartDate     time.Time  `json:"start_date" gorm:"type:date;not null"`
	EndDate       time.Time  `json:"end_date" gorm:"type:date;not null"`
	CompletedDate *time.Time `json:"completed_date" gorm:"type:date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Phase *Phase `json:"phase,omitempty" gorm:"foreignKey:PhaseID"`
}

func (MilestoneStage) TableName() string {
	return "milestone_stages"
}
