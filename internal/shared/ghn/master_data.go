package ghn

import (
	"context"
	"fmt"
)

// GetProvinces 行政区划：省列表
func (c *Client) GetProvinces(ctx context.Context) ([]Province, error) {
	var provinces []Province
	if err := c.doRequest(ctx, "GET", "/master-data/province", "", nil, &provinces); err != nil {
		return nil, err
	}
	return provinces, nil
}

// GetDistricts 行政区划：指定省的郡县列表
func (c *Client) GetDistricts(ctx context.Context, provinceID int) ([]District, error) {
	var districts []District
	body := map[string]int{"province_id": provinceID}
	if err := c.doRequest(ctx, "POST", "/master-data/district", "", body, &districts); err != nil {
		return nil, err
	}
	return districts, nil
}

// GetWards 行政区划：指定郡县的坊社列表
func (c *Client) GetWards(ctx context.Context, districtID int) ([]Ward, error) {
	var wards []Ward
	path := fmt.Sprintf("/master-data/ward?district_id=%d", districtID)
	if err := c.doRequest(ctx, "GET", path, "", nil, &wards); err != nil {
		return nil, err
	}
	return wards, nil
}
