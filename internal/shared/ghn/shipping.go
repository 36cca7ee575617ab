package ghn

import (
	"context"
	"time"
)

// CalculateLeadTime 预估物流时效，返回GHN给出的预计送达时刻（unix秒）。
// 无副作用，可重复调用刷新。
func (c *Client) CalculateLeadTime(ctx context.Context, shopID string, req LeadTimeRequest) (int64, error) {
	var data leadTimeData
	if err := c.doRequest(ctx, "POST", "/v2/shipping-order/leadtime", shopID, req, &data); err != nil {
		return 0, err
	}
	return data.LeadTime, nil
}

// CalculateFee 预估运费
func (c *Client) CalculateFee(ctx context.Context, shopID string, req FeeRequest) (*FeeData, error) {
	var data FeeData
	if err := c.doRequest(ctx, "POST", "/v2/shipping-order/fee", shopID, req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// LeadTimeDays 把GHN预计送达时刻换算为整天数。
// 取整规则：送达日与参考日的日历天数差，负值按0处理
// （上游未约定取整方式，这里固定按日历日差，见DESIGN.md）。
func LeadTimeDays(leadTimeUnix int64, ref time.Time) int {
	eta := time.Unix(leadTimeUnix, 0).UTC()
	etaDay := time.Date(eta.Year(), eta.Month(), eta.Day(), 0, 0, 0, 0, time.UTC)
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	days := int(etaDay.Sub(refDay).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
