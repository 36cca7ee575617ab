package repository

import (
	"context"
	"errors"

	"github.com/KenTheWhale/unisew-partner/internal/partner/entity"
	"gorm.io/gorm"
)

// PhaseRepository 工序目录仓库
type PhaseRepository struct {
	db *gorm.DB
}

// NewPhaseRepository 创建工序仓库
func NewPhaseRepository(db *gorm.DB) *PhaseRepository {
	return &PhaseRepository{db: db}
}

// ListByPartner 获取工厂的工序目录
func (r *PhaseRepository) ListByPartner(ctx context.Context, partnerID string) ([]entity.Phase, error) {
	var phases []entity.Phase
	err := r.db.WithContext(ctx).
		Where("partner_id = ? AND deleted_at IS NULL", partnerID).
		Order("sequence ASC, created_at ASC").
		Find(&phases).Error
	return phases, err
}

// FindByID 根据ID查找工序
func (r *PhaseRepository) FindByID(ctx context.Context, id string) (*entity.Phase, error) {
	var phase entity.Phase
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&phase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &phase, nil
}

// FindByIDs 批量查找工序（排期分配时校验归属）
func (r *PhaseRepository) FindByIDs(ctx context.Context, ids []string) ([]entity.Phase, error) {
	var phases []entity.Phase
	err := r.db.WithContext(ctx).
		Where("id IN ? AND deleted_at IS NULL", ids).
		Find(&phases).Error
	return phases, err
}

// Create 创建工序
func (r *PhaseRepository) Create(ctx context.Context, phase *entity.Phase) error {
	return r.db.WithContext(ctx).Create(phase).Error
}

// Update 更新工序
func (r *PhaseRepository) Update(ctx context.Context, phase *entity.Phase) error {
	return r.db.WithContext(ctx).Save(phase).Error
}

// Delete 软删除工序
func (r *PhaseRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Phase{}).
		Where("id = ?", id).
		Update("deleted_at", gorm.Expr("NOW()")).Error
}

// CountReferences 工序被多少里程碑阶段引用（删除前检查）
func (r *PhaseRepository) CountReferences(ctx context.Context, phaseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.MilestoneStage{}).
		Where("phase_id = ?", phaseID).
		Count(&count).Error
	return count, err
}
