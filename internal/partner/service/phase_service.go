package service

import (
	"context"
	"fmt"

	"github.com/KenTheWhale/unisew-partner/internal/partner/entity"
	"github.com/KenTheWhale/unisew-partner/internal/partner/repository"
)

// PhaseService 工序目录服务
type PhaseService struct {
	phaseRepo *repository.PhaseRepository
}

// NewPhaseService 创建工序服务
func NewPhaseService(phaseRepo *repository.PhaseRepository) *PhaseService {
	return &PhaseService{phaseRepo: phaseRepo}
}

// List 获取工厂工序目录
func (s *PhaseService) List(ctx context.Context, partnerID string) ([]entity.Phase, error) {
	return s.phaseRepo.ListByPartner(ctx, partnerID)
}

// CreatePhaseRequest 创建工序请求
type CreatePhaseRequest struct {
	Name        string `json:"name" binding:"required,max=64"`
	Description string `json:"description"`
}

// Create 创建工序，追加到目录末尾
func (s *PhaseService) Create(ctx context.Context, partnerID string, req *CreatePhaseRequest) (*entity.Phase, error) {
	existing, err := s.phaseRepo.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("查询工序目录失败: %w", err)
	}

	phase := &entity.Phase{
		ID:          generateID(),
		PartnerID:   partnerID,
		Name:        req.Name,
		Description: req.Description,
		Sequence:    len(existing) + 1,
	}
	if err := s.phaseRepo.Create(ctx, phase); err != nil {
		return nil, fmt.Errorf("创建工序失败: %w", err)
	}
	return phase, nil
}

// UpdatePhaseRequest 更新工序请求
type UpdatePhaseRequest struct {
	Name        string `json:"name" binding:"required,max=64"`
	Description string `json:"description"`
}

// Update 更新工序
func (s *PhaseService) Update(ctx context.Context, partnerID, id string, req *UpdatePhaseRequest) (*entity.Phase, error) {
	phase, err := s.phaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if phase.PartnerID != partnerID {
		return nil, ErrNotOwner
	}

	phase.Name = req.Name
	phase.Description = req.Description
	if err := s.phaseRepo.Update(ctx, phase); err != nil {
		return nil, fmt.Errorf("更新工序失败: %w", err)
	}
	return phase, nil
}

// Delete 删除工序。被里程碑引用的工序不可删除。
func (s *PhaseService) Delete(ctx context.Context, partnerID, id string) error {
	phase, err := s.phaseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if phase.PartnerID != partnerID {
		return ErrNotOwner
	}

	refs, err := s.phaseRepo.CountReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("查询工序引用失败: %w", err)
	}
	if refs > 0 {
		return ErrPhaseInUse
	}
	return s.phaseRepo.Delete(ctx, id)
}
