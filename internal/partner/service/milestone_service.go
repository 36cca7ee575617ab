package service

import (
	"context"
	"fmt"
	"time"

	"github.com/KenTheWhale/unisew-partner/internal/partner/entity"
	"github.com/KenTheWhale/unisew-partner/internal/partner/repository"
	"github.com/KenTheWhale/unisew-partner/internal/partner/schedule"
	"github.com/KenTheWhale/unisew-partner/internal/shared/ghn"
)

// 默认排期种子参数：每阶段3天，阶段间隔2天
const (
	defaultStageDuration = 3
	defaultStageGap      = 2
)

// MilestoneService 生产里程碑排期服务。
// 窗口推导与序列校验委托给schedule纯函数包，这里负责取数、编排与持久化。
type MilestoneService struct {
	partnerRepo   *repository.PartnerRepository
	orderRepo     *repository.OrderRepository
	phaseRepo     *repository.PhaseRepository
	milestoneRepo *repository.MilestoneRepository
	walletSvc     *WalletService
	estimator     ShippingEstimator
	serviceID     int
	now           clock
}

// NewMilestoneService 创建里程碑服务
func NewMilestoneService(partnerRepo *repository.PartnerRepository, orderRepo *repository.OrderRepository,
	phaseRepo *repository.PhaseRepository, milestoneRepo *repository.MilestoneRepository,
	walletSvc *WalletService, estimator ShippingEstimator, serviceID int) *MilestoneService {
	return &MilestoneService{
		partnerRepo:   partnerRepo,
		orderRepo:     orderRepo,
		phaseRepo:     phaseRepo,
		milestoneRepo: milestoneRepo,
		walletSvc:     walletSvc,
		estimator:     estimator,
		serviceID:     serviceID,
		now:           systemClock,
	}
}

// SetClock 注入时钟（测试用）
func (s *MilestoneService) SetClock(fn func() time.Time) {
	s.now = fn
}

// ResolveLeadTime 预估工厂到订单学校的物流天数。
// 幂等，可重复调用刷新；缺少店铺ID或学校地址时返回配置错误。
func (s *MilestoneService) ResolveLeadTime(ctx context.Context, partner *entity.Partner, order *entity.Order) (int, error) {
	if partner.ShippingUID == "" {
		return 0, ErrShippingUIDMissing
	}
	if order.SchoolDistrict == 0 || order.SchoolWardCode == "" {
		return 0, ErrSchoolAddressMissing
	}

	eta, err := s.estimator.CalculateLeadTime(ctx, partner.ShippingUID, ghn.LeadTimeRequest{
		FromDistrictID: partner.DistrictID,
		FromWardCode:   partner.WardCode,
		ToDistrictID:   order.SchoolDistrict,
		ToWardCode:     order.SchoolWardCode,
		ServiceID:      s.serviceID,
	})
	if err != nil {
		return 0, err
	}
	return ghn.LeadTimeDays(eta, s.now()), nil
}

// GetLeadTime 刷新订单的物流时效预估（显式刷新入口，等价于重新解析）
func (s *MilestoneService) GetLeadTime(ctx context.Context, partnerID, orderID string) (int, error) {
	partner, order, err := s.loadOrderForPartner(ctx, partnerID, orderID)
	if err != nil {
		return 0, err
	}
	return s.ResolveLeadTime(ctx, partner, order)
}

// WindowResult 窗口推导结果。ResolveErr非空时窗口为兜底边界，
// 调用方应以信息提示告知边界精度（不阻塞排期）。
type WindowResult struct {
	Window       schedule.Window `json:"window"`
	LeadTimeDays int             `json:"lead_time_days"`
	ResolveErr   error           `json:"-"`
}

// GetWindow 推导订单的最晚开工/完工窗口。
// 配置错误直接上抛；上游/超时错误降级为兜底窗口并随结果返回。
func (s *MilestoneService) GetWindow(ctx context.Context, partnerID, orderID string) (*WindowResult, error) {
	partner, order, err := s.loadOrderForPartner(ctx, partnerID, orderID)
	if err != nil {
		return nil, err
	}
	return s.windowFor(ctx, partner, order), nil
}

func (s *MilestoneService) windowFor(ctx context.Context, partner *entity.Partner, order *entity.Order) *WindowResult {
	deadline := schedule.DateOf(order.Deadline)
	days, err := s.ResolveLeadTime(ctx, partner, order)
	if err != nil {
		return &WindowResult{
			Window:     schedule.ComputeWindow(deadline, 0),
			ResolveErr: err,
		}
	}
	return &WindowResult{
		Window:       schedule.ComputeWindow(deadline, days),
		LeadTimeDays: days,
	}
}

// BuildDraft 按工序顺序生成排期草稿：阶段1从今天开始，默认时长与间隔。
func (s *MilestoneService) BuildDraft(ctx context.Context, partnerID, orderID string, phaseIDs []string) ([]schedule.Stage, *WindowResult, error) {
	partner, order, err := s.loadOrderForPartner(ctx, partnerID, orderID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkPhases(ctx, partnerID, phaseIDs); err != nil {
		return nil, nil, err
	}

	stages := make([]schedule.Stage, len(phaseIDs))
	for i, phaseID := range phaseIDs {
		stages[i] = schedule.Stage{PhaseID: phaseID, Ordinal: i + 1}
	}
	today := schedule.DateOf(s.now())
	seeded := schedule.SeedDates(stages, today, defaultStageDuration, defaultStageGap)
	return seeded, s.windowFor(ctx, partner, order), nil
}

// ReorderDraft 排期草稿内移动阶段（纯操作，不落库）
func (s *MilestoneService) ReorderDraft(stages []schedule.Stage, from, to int) ([]schedule.Stage, error) {
	return schedule.Move(stages, from, to)
}

// AssignMilestone 校验并整体提交阶段序列。
// 校验不通过返回schedule.Violations且不产生任何写入；
// 持久化单事务全有或全无，失败包装为SubmissionError，客户端数据保留可重试。
func (s *MilestoneService) AssignMilestone(ctx context.Context, partnerID, orderID string, stages []schedule.Stage) (*WindowResult, error) {
	partner, order, err := s.loadOrderForPartner(ctx, partnerID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderStatusPending {
		return nil, ErrOrderNotSchedulable
	}

	phaseIDs := make([]string, len(stages))
	for i, st := range stages {
		phaseIDs[i] = st.PhaseID
	}
	if err := s.checkPhases(ctx, partnerID, phaseIDs); err != nil {
		return nil, err
	}

	result := s.windowFor(ctx, partner, order)
	today := schedule.DateOf(s.now())
	if violations := schedule.Validate(stages, result.Window, today); len(violations) > 0 {
		return result, violations
	}

	rows := make([]entity.MilestoneStage, len(stages))
	for i, st := range stages {
		rows[i] = entity.MilestoneStage{
			ID:        generateID(),
			OrderID:   order.ID,
			PhaseID:   st.PhaseID,
			Stage:     st.Ordinal,
			Status:    entity.StageStatusAssigned,
			StartDate: st.Start.Time(),
			EndDate:   st.End.Time(),
		}
	}
	if err := s.milestoneRepo.ReplaceForOrder(ctx, order.ID, rows); err != nil {
		return result, &SubmissionError{Err: err}
	}
	return result, nil
}

// UpdateStageStatus 阶段状态流转：assigned → processing → completed。
// 最后一个阶段完工时整单完工并入账。
func (s *MilestoneService) UpdateStageStatus(ctx context.Context, partnerID, stageID, status string) (*entity.MilestoneStage, error) {
	stage, err := s.milestoneRepo.FindStageByID(ctx, stageID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, stage.OrderID)
	if err != nil {
		return nil, fmt.Errorf("查询订单失败: %w", err)
	}
	if order.PartnerID != partnerID {
		return nil, ErrNotOwner
	}

	switch {
	case stage.Status == entity.StageStatusAssigned && status == entity.StageStatusProcessing:
		stage.Status = entity.StageStatusProcessing
	case stage.Status == entity.StageStatusProcessing && status == entity.StageStatusCompleted:
		completed := s.now()
		stage.Status = entity.StageStatusCompleted
		stage.CompletedDate = &completed
	default:
		return nil, ErrStageTransition
	}

	if err := s.milestoneRepo.UpdateStage(ctx, stage); err != nil {
		return nil, fmt.Errorf("更新阶段失败: %w", err)
	}

	if stage.Status == entity.StageStatusCompleted {
		remaining, err := s.milestoneRepo.CountIncomplete(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("统计未完成阶段失败: %w", err)
		}
		if remaining == 0 {
			if err := s.orderRepo.UpdateStatus(ctx, order.ID, entity.OrderStatusCompleted); err != nil {
				return nil, fmt.Errorf("更新订单状态失败: %w", err)
			}
			if err := s.walletSvc.CreditOrder(ctx, partnerID, order); err != nil {
				return nil, fmt.Errorf("订单完工入账失败: %w", err)
			}
		}
	}
	return stage, nil
}

// loadOrderForPartner 加载订单并校验归属
func (s *MilestoneService) loadOrderForPartner(ctx context.Context, partnerID, orderID string) (*entity.Partner, *entity.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.PartnerID != partnerID {
		return nil, nil, ErrNotOwner
	}

	partner, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, nil, fmt.Errorf("查询合作方失败: %w", err)
	}
	return partner, order, nil
}

// checkPhases 校验工序存在且属于当前工厂、无重复
func (s *MilestoneService) checkPhases(ctx context.Context, partnerID string, phaseIDs []string) error {
	if len(phaseIDs) == 0 {
		return fmt.Errorf("至少选择一个工序")
	}
	seen := make(map[string]bool, len(phaseIDs))
	for _, id := range phaseIDs {
		if seen[id] {
			return fmt.Errorf("工序重复: %s", id)
		}
		seen[id] = true
	}

	phases, err := s.phaseRepo.FindByIDs(ctx, phaseIDs)
	if err != nil {
		return fmt.Errorf("查询工序失败: %w", err)
	}
	if len(phases) != len(phaseIDs) {
		return repository.ErrNotFound
	}
	for _, p := range phases {
		if p.PartnerID != partnerID {
			return ErrNotOwner
		}
	}
	return nil
}
