package domains

import (
	"ladp/common/model"
	"ladp/internal/domains/common"
	"ladp/internal/domains/handlers/logs/detect"
)

// HandlerMap 路由表（ActionType → Handler 映射）
var HandlerMap = map[string]common.HandlerServProc{
	model.ActionTypeLogDetect: detect.NewDetectHandler,

	// 未来扩展示例：
	// "log_cost_forecast": forecast.NewForecastHandler,
}
