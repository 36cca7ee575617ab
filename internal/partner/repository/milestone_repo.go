package repository

import (
	"context"
	"errors"

	"github.com/KenTheWhale/unisew-partner/internal/partner/entity"
	"gorm.io/gorm"
)

// MilestoneRepository 生产里程碑仓库
type MilestoneRepository struct {
	db *gorm.DB
}

// NewMilestoneRepository 创建里程碑仓库
func NewMilestoneRepository(db *gorm.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

// ListByOrder 获取订单的阶段序列（按序号升序）
func (r *MilestoneRepository) ListByOrder(ctx context.Context, orderID string) ([]entity.MilestoneStage, error) {
	var stages []entity.MilestoneStage
	err := r.db.WithContext(ctx).
		Preload("Phase").
		Where("order_id = ?", orderID).
		Order("stage ASC").
		Find(&stages).Error
	return stages, err
}

// FindStageByID 根据ID查找阶段
func (r *MilestoneRepository) FindStageByID(ctx context.Context, id string) (*entity.MilestoneStage, error) {
	var stage entity.MilestoneStage
	err := r.db.WithContext(ctx).
		Preload("Phase").
		Where("id = ?", id).
		First(&stage).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &stage, nil
}

// ReplaceForOrder 以单事务整体写入订单的阶段序列：
// 先清空旧序列再写入新序列，并把订单置为生产中。全有或全无。
func (r *MilestoneRepository) ReplaceForOrder(ctx context.Context, orderID string, stages []entity.MilestoneStage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&entity.MilestoneStage{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&stages).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Order{}).
			Where("id = ?", orderID).
			Update("status", entity.OrderStatusProcessing).Error
	})
}

// UpdateStage 更新阶段（状态流转）
func (r *MilestoneRepository) UpdateStage(ctx context.Context, stage *entity.MilestoneStage) error {
	return r.db.WithContext(ctx).Save(stage).Error
}

// CountIncomplete 订单未完成阶段数（判断整单完工）
func (r *MilestoneRepository) CountIncomplete(ctx context.Context, orderID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.MilestoneStage{}).
		Where("order_id = ? AND status != ?", orderID, entity.StageStatusCompleted).
		Count(&count).Error
	return count, err
}
