package pipeline

import "time"

// SeriesFrame 检测管道的工作集（列式平行切片，行按下标对应）
// 每个任务查询时新建，逐阶段原地填充，任务结束后丢弃
type SeriesFrame struct {
	Times      []time.Time // 时间戳
	Categories []string    // 数据类型标签
	Actuals    []float64   // 实际观测值
	Features   [][]float64 // 日历特征（特征准备阶段填充）
	Predicted  []float64   // 模型预测值（打分阶段填充）
	Residuals  []float64   // 残差 = 实际 - 预测
	Flags      []int       // 异常标记（围栏阶段填充）
}

// NewSeriesFrame 创建指定容量的空帧
func NewSeriesFrame(capacity int) *SeriesFrame {
	return &SeriesFrame{
		Times:      make([]time.Time, 0, capacity),
		Categories: make([]string, 0, capacity),
		Actuals:    make([]float64, 0, capacity),
	}
}

// Append 追加一行
func (f *SeriesFrame) Append(t time.Time, category string, actual float64) {
	f.Times = append(f.Times, t)
	f.Categories = append(f.Categories, category)
	f.Actuals = append(f.Actuals, actual)
}

// Len 行数
func (f *SeriesFrame) Len() int {
	return len(f.Times)
}

// BuildFeatures 为所有行生成日历特征
func (f *SeriesFrame) BuildFeatures() {
	f.Features = make([][]float64, f.Len())
	for i, t := range f.Times {
		f.Features[i] = CalendarFeatures(t)
	}
}

// MaxTime 最大时间戳（空帧返回零值）
func (f *SeriesFrame) MaxTime() time.Time {
	var max time.Time
	for _, t := range f.Times {
		if t.After(max) {
			max = t
		}
	}
	return max
}
