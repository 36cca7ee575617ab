package service

import (
	"errors"
	"fmt"
)

// 配置类错误：必要输入缺失，不可重试，需补全配置
var (
	ErrShippingUIDMissing   = errors.New("未配置GHN店铺ID，无法预估物流时效")
	ErrSchoolAddressMissing = errors.New("订单缺少学校收货地址")
)

// 业务类错误
var (
	ErrEmailTaken          = errors.New("邮箱已被注册")
	ErrTaxCodeTaken        = errors.New("税号已被注册")
	ErrInvalidCredentials  = errors.New("邮箱或密码错误")
	ErrPartnerNotActive    = errors.New("账号未激活，请先完成邮箱确认")
	ErrConfirmTokenInvalid = errors.New("确认链接无效或已过期")
	ErrOrderNotSchedulable = errors.New("订单当前状态不允许排期")
	ErrPhaseInUse          = errors.New("工序已被生产里程碑引用，无法删除")
	ErrStageTransition     = errors.New("阶段状态流转不合法")
	ErrNotOwner            = errors.New("无权访问该资源")
)

// SubmissionError 阶段序列持久化失败。原子写入，失败时客户端数据保留可重试。
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("提交生产排期失败: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
