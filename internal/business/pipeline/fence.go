package pipeline

import (
	"math"
	"sort"
)

// FenceBounds 分位围栏边界
type FenceBounds struct {
	Q1    float64 `json:"q1"`    // 下分位值
	Q3    float64 `json:"q3"`    // 上分位值
	IQR   float64 `json:"iqr"`   // Q3 - Q1
	Lower float64 `json:"lower"` // Q1 - scale*IQR
	Upper float64 `json:"upper"` // Q3 + scale*IQR
}

// Percentile 线性插值分位数（p 为百分数，0-100）
// 秩 = p/100 * (n-1)，相邻样本间线性插值
func Percentile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return values[0]
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if hi >= n {
		hi = n - 1
	}
	frac := rank - float64(lo)

	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// ComputeBounds 计算围栏边界
// lowQ/highQ 为分位百分数（默认 10/90），scale 为 IQR 倍数（默认 1.5）
func ComputeBounds(values []float64, lowQ, highQ, scale float64) FenceBounds {
	q1 := Percentile(values, lowQ)
	q3 := Percentile(values, highQ)
	iqr := q3 - q1

	return FenceBounds{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - scale*iqr,
		Upper: q3 + scale*iqr,
	}
}

// FlagValue 根据围栏判定异常标记
// 严格低于下界 → -1，严格高于上界 → +1，边界含在内视为正常
func FlagValue(v float64, b FenceBounds) int {
	if v < b.Lower {
		return -1
	}
	if v > b.Upper {
		return 1
	}
	return 0
}

// ApplyFences 按数据类型分组计算围栏并写入 Flags
// 返回各分组的边界（用于结果汇报）
func ApplyFences(frame *SeriesFrame, lowQ, highQ, scale float64) map[string]FenceBounds {
	// 分组收集残差
	grouped := make(map[string][]float64)
	for i, cat := range frame.Categories {
		grouped[cat] = append(grouped[cat], frame.Residuals[i])
	}

	// 每组独立计算围栏
	bounds := make(map[string]FenceBounds, len(grouped))
	for cat, residuals := range grouped {
		bounds[cat] = ComputeBounds(residuals, lowQ, highQ, scale)
	}

	// 回写标记
	frame.Flags = make([]int, frame.Len())
	for i, cat := range frame.Categories {
		frame.Flags[i] = FlagValue(frame.Residuals[i], bounds[cat])
	}

	return bounds
}
