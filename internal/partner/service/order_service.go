package service

import (
	"context"

	"github.com/KenTheWhale/unisew-partner/internal/partner/entity"
	"github.com/KenTheWhale/unisew-partner/internal/partner/repository"
)

// OrderService 订单查询服务。订单由平台派发，工厂侧只读与排期。
type OrderService struct {
	orderRepo *repository.OrderRepository
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo *repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// List 获取工厂订单列表
func (s *OrderService) List(ctx context.Context, partnerID, status string, page, pageSize int) ([]entity.Order, int64, error) {
	return s.orderRepo.ListByPartner(ctx, partnerID, status, page, pageSize)
}

// Get 获取订单详情（含行项与里程碑）
func (s *OrderService) Get(ctx context.Context, partnerID, orderID string) (*entity.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PartnerID != partnerID {
		return nil, ErrNotOwner
	}
	return order, nil
}
