package pipeline

import "time"

// FeatureDim 日历特征维度
const FeatureDim = 5

// CalendarFeatures 将时间戳分解为日历特征
// 顺序：年、月、日、星期（周日 = 0）、小时
func CalendarFeatures(t time.Time) []float64 {
	return []float64{
		float64(t.Year()),
		float64(int(t.Month())),
		float64(t.Day()),
		float64(t.Weekday()),
		float64(t.Hour()),
	}
}
