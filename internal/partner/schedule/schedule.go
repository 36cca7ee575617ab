// Package schedule 生产排期计算：根据订单交期与物流时效推导最晚开工/完工窗口，
// 并校验各生产阶段的日期序列。纯函数实现，不依赖数据库与外部服务。
package schedule

import (
	"fmt"
)

// BoundSource 窗口边界来源
type BoundSource string

const (
	// SourceLeadTime 边界由物流时效推导
	SourceLeadTime BoundSource = "lead_time"
	// SourceFallback 物流时效不可用时的保守兜底边界
	SourceFallback BoundSource = "fallback"
)

// Window 最后一个阶段允许的最晚开工/完工窗口
type Window struct {
	MaxStart Date        `json:"max_start"`
	MaxEnd   Date        `json:"max_end"`
	Source   BoundSource `json:"source"`
}

// ComputeWindow 根据交期与物流天数推导窗口。
// 物流可用: maxEnd = deadline - leadTimeDays - 1天（留一天发货缓冲），maxStart = maxEnd - 1天。
// 物流不可用（leadTimeDays <= 0）: maxEnd = deadline - 1天，maxStart = deadline - 2天。
// 同样输入恒定产出同样窗口。
func ComputeWindow(deadline Date, leadTimeDays int) Window {
	if leadTimeDays <= 0 {
		return Window{
			MaxStart: deadline.AddDays(-2),
			MaxEnd:   deadline.AddDays(-1),
			Source:   SourceFallback,
		}
	}
	maxEnd := deadline.AddDays(-(leadTimeDays + 1))
	return Window{
		MaxStart: maxEnd.AddDays(-1),
		MaxEnd:   maxEnd,
		Source:   SourceLeadTime,
	}
}

// Stage 一个订单生产序列中的阶段槽位（序号从1连续）
type Stage struct {
	PhaseID string `json:"phase_id"`
	Ordinal int    `json:"stage"`
	Start   Date   `json:"start_date"`
	End     Date   `json:"end_date"`
}

// ViolationKind 校验违规类别
type ViolationKind string

const (
	ViolationIncomplete ViolationKind = "incomplete"  // 开工或完工日期缺失
	ViolationOrdinal    ViolationKind = "ordinal"     // 阶段序号不连续
	ViolationFirstStart ViolationKind = "first_start" // 阶段1未从排期当日开始
	ViolationDuration   ViolationKind = "duration"    // 完工日期未晚于开工日期
	ViolationOverlap    ViolationKind = "overlap"     // 与上一阶段重叠或倒序
	ViolationStartBound ViolationKind = "start_bound" // 开工日期超出最晚开工边界
	ViolationEndBound   ViolationKind = "end_bound"   // 完工日期超出最晚完工边界
)

// Violation 单条违规，定位到具体阶段与越过的边界
type Violation struct {
	Ordinal int           `json:"stage"`
	Kind    ViolationKind `json:"kind"`
	Bound   Date          `json:"bound,omitempty"`
	Message string        `json:"message"`
}

// Violations 校验结果，可作为error在服务层传递
type Violations []Violation

func (v Violations) Error() string {
	if len(v) == 0 {
		return "排期校验通过"
	}
	return fmt.Sprintf("排期校验未通过: %d 处违规（阶段%d: %s）", len(v), v[0].Ordinal, v[0].Message)
}

// boundHint 按边界来源生成不同精度的提示语
func boundHint(source BoundSource, bound Date) string {
	if source == SourceLeadTime {
		return fmt.Sprintf("按物流时效推算不得晚于 %s", bound)
	}
	return fmt.Sprintf("物流时效暂不可用，按保守缓冲不得晚于 %s", bound)
}

// Validate 校验阶段序列。today为排期当日（阶段1的固定开工日）。
// 完整性检查不通过时立即返回，仅含incomplete违规；
// 其余检查（序号连续、时长、顺序衔接、窗口边界）在一次遍历中全部报告。
// 无隐藏状态，重复调用结果一致。
func Validate(stages []Stage, w Window, today Date) Violations {
	if len(stages) == 0 {
		return Violations{{Kind: ViolationIncomplete, Message: "阶段列表为空"}}
	}

	// 1. 完整性：任一阶段缺日期则短路，不做后续边界检查
	var incomplete Violations
	for _, st := range stages {
		if st.Start.IsZero() || st.End.IsZero() {
			incomplete = append(incomplete, Violation{
				Ordinal: st.Ordinal,
				Kind:    ViolationIncomplete,
				Message: fmt.Sprintf("阶段%d 未设置完整的开工/完工日期", st.Ordinal),
			})
		}
	}
	if len(incomplete) > 0 {
		return incomplete
	}

	var out Violations

	// 2. 序列约束
	for i, st := range stages {
		if st.Ordinal != i+1 {
			out = append(out, Violation{
				Ordinal: st.Ordinal,
				Kind:    ViolationOrdinal,
				Message: fmt.Sprintf("阶段序号应为%d，实际为%d", i+1, st.Ordinal),
			})
		}
		if i == 0 && !st.Start.Equal(today) {
			out = append(out, Violation{
				Ordinal: st.Ordinal,
				Kind:    ViolationFirstStart,
				Bound:   today,
				Message: fmt.Sprintf("阶段1 必须从排期当日 %s 开始", today),
			})
		}
		if !st.End.After(st.Start) {
			out = append(out, Violation{
				Ordinal: st.Ordinal,
				Kind:    ViolationDuration,
				Message: fmt.Sprintf("阶段%d 完工日期必须晚于开工日期（至少1天）", st.Ordinal),
			})
		}
		if i > 0 {
			prevEnd := stages[i-1].End
			if st.Start.Before(prevEnd.AddDays(1)) {
				out = append(out, Violation{
					Ordinal: st.Ordinal,
					Kind:    ViolationOverlap,
					Bound:   prevEnd,
					Message: fmt.Sprintf("阶段%d 开工日期不得早于阶段%d 完工日期次日", st.Ordinal, stages[i-1].Ordinal),
				})
			}
		}
	}

	// 3. 窗口边界
	for _, st := range stages {
		if st.Start.After(w.MaxStart) {
			out = append(out, Violation{
				Ordinal: st.Ordinal,
				Kind:    ViolationStartBound,
				Bound:   w.MaxStart,
				Message: fmt.Sprintf("阶段%d 开工日期超出最晚开工边界，%s", st.Ordinal, boundHint(w.Source, w.MaxStart)),
			})
		}
		if st.End.After(w.MaxEnd) {
			out = append(out, Violation{
				Ordinal: st.Ordinal,
				Kind:    ViolationEndBound,
				Bound:   w.MaxEnd,
				Message: fmt.Sprintf("阶段%d 完工日期超出最晚完工边界，%s", st.Ordinal, boundHint(w.Source, w.MaxEnd)),
			})
		}
	}

	return out
}

// Move 将阶段从from位置移到to位置（0基下标），返回重新编号后的新切片。
// 纯操作，不修改入参；下标越界时返回错误。
func Move(stages []Stage, from, to int) ([]Stage, error) {
	if from < 0 || from >= len(stages) || to < 0 || to >= len(stages) {
		return nil, fmt.Errorf("移动位置越界: from=%d to=%d len=%d", from, to, len(stages))
	}
	out := make([]Stage, 0, len(stages))
	out = append(out, stages...)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	rest := make([]Stage, 0, len(stages))
	rest = append(rest, out[:to]...)
	rest = append(rest, moved)
	rest = append(rest, out[to:]...)
	for i := range rest {
		rest[i].Ordinal = i + 1
	}
	return rest, nil
}

// SeedDates 为已排序的阶段列表生成默认日期：阶段1从today开始，
// 每阶段默认时长durationDays天，相邻阶段开工日为上一阶段完工日后gapDays天
// （gapDays最小为1以满足顺序约束，默认调用方传2）。
// 仅作为编辑起点，最终以Validate为准。
func SeedDates(stages []Stage, today Date, durationDays, gapDays int) []Stage {
	if durationDays < 1 {
		durationDays = 1
	}
	if gapDays < 1 {
		gapDays = 1
	}
	out := make([]Stage, len(stages))
	copy(out, stages)
	cursor := today
	for i := range out {
		out[i].Start = cursor
		out[i].End = cursor.AddDays(durationDays)
		cursor = out[i].End.AddDays(gapDays)
	}
	return out
}
