package ghn

// Province 省/直辖市
type Province struct {
	ProvinceID int    `json:"ProvinceID"`
	Name       string `json:"ProvinceName"`
}

// District 郡/县
type District struct {
	DistrictID int    `json:"DistrictID"`
	ProvinceID int    `json:"ProvinceID"`
	Name       string `json:"DistrictName"`
}

// Ward 坊/社
type Ward struct {
	WardCode   string `json:"WardCode"`
	DistrictID int    `json:"DistrictID"`
	Name       string `json:"WardName"`
}

// LeadTimeRequest 时效预估请求，发货地取自工厂档案，收货地取自订单学校地址
type LeadTimeRequest struct {
	FromDistrictID int    `json:"from_district_id"`
	FromWardCode   string `json:"from_ward_code"`
	ToDistrictID   int    `json:"to_district_id"`
	ToWardCode     string `json:"to_ward_code"`
	ServiceID      int    `json:"service_id"`
}

// leadTimeData GHN返回的预计送达时刻（unix秒）
type leadTimeData struct {
	LeadTime int64 `json:"leadtime"`
}

// FeeRequest 运费预估请求
type FeeRequest struct {
	FromDistrictID int    `json:"from_district_id"`
	FromWardCode   string `json:"from_ward_code"`
	ToDistrictID   int    `json:"to_district_id"`
	ToWardCode     string `json:"to_ward_code"`
	ServiceTypeID  int    `json:"service_type_id"`
	Weight         int    `json:"weight"` // 克
	Length         int    `json:"length,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
}

// FeeData 运费预估结果（VND）
type FeeData struct {
	Total       int64 `json:"total"`
	ServiceFee  int64 `json:"service_fee"`
	InsuranceFee int64 `json:"insurance_fee"`
}
