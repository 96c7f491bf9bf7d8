package detection

import (
	"github.com/gin-gonic/gin"

	"ladp/internal/apiserver/domains/apimodel/response"
	"ladp/internal/apiserver/pkg/ginx"
)

// Get godoc
// @Summary      获取检测任务详情
// @Description  根据任务ID获取检测任务详细信息（包含检测结果）
// @Description
// @Description  使用场景：
// @Description  - 创建任务返回 code=3001 时，通过此接口轮询结果
// @Description  - 查询历史检测详情
// @Tags         detections
// @Produce      json
// @Param        id path string true "任务ID（UUID）"
// @Success      200 {object} ginx.Response{data=response.DetectionResponse} "查询成功"
// @Failure      400 {object} ginx.Response "参数错误"
// @Failure      404 {object} ginx.Response "任务不存在"
// @Failure      500 {object} ginx.Response "服务器错误"
// @Router       /detections/{id} [get]
func (h *DetectionHandler) Get(c *gin.Context) {
	jobID := c.Param("id")
	if jobID == "" {
		ginx.BadRequest(c, "job_id required")
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), jobID)
	if err != nil {
		ginx.InternalError(c, err.Error())
		return
	}
	if job == nil {
		ginx.NotFound(c, "detection job not found")
		return
	}

	ginx.Success(c, response.FromJobEntity(job))
}
