package service

import (
	"context"

	"github.com/KenTheWhale/unisew-partner/internal/shared/ghn"
)

// ShippingService GHN物流查询服务：行政区划目录与运费预估
type ShippingService struct {
	client *ghn.Client
}

// NewShippingService 创建物流服务
func NewShippingService(client *ghn.Client) *ShippingService {
	return &ShippingService{client: client}
}

// Provinces 省列表
func (s *ShippingService) Provinces(ctx context.Context) ([]ghn.Province, error) {
	return s.client.GetProvinces(ctx)
}

// Districts 指定省的郡县列表
func (s *ShippingService) Districts(ctx context.Context, provinceID int) ([]ghn.District, error) {
	return s.client.GetDistricts(ctx, provinceID)
}

// Wards 指定郡县的坊社列表
func (s *ShippingService) Wards(ctx context.Context, districtID int) ([]ghn.Ward, error) {
	return s.client.GetWards(ctx, districtID)
}

// EstimateFeeRequest 运费预估请求
type EstimateFeeRequest struct {
	ToDistrictID  int `json:"to_district_id" binding:"required"`
	ToWardCode    string `json:"to_ward_code" binding:"required"`
	ServiceTypeID int `json:"service_type_id" binding:"required"`
	Weight        int `json:"weight" binding:"required,min=1"`
}

// EstimateFee 从工厂地址预估到目的地的运费
func (s *ShippingService) EstimateFee(ctx context.Context, shopID string, fromDistrictID int, fromWardCode string, req *EstimateFeeRequest) (*ghn.FeeData, error) {
	if shopID == "" {
		return nil, ErrShippingUIDMissing
	}
	return s.client.CalculateFee(ctx, shopID, ghn.FeeRequest{
		FromDistrictID: fromDistrictID,
		FromWardCode:   fromWardCode,
		ToDistrictID:   req.ToDistrictID,
		ToWardCode:     req.ToWardCode,
		ServiceTypeID:  req.ServiceTypeID,
		Weight:         req.Weight,
	})
}
