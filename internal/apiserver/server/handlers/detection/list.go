package detection

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"ladp/internal/apiserver/domains/apimodel/response"
	"ladp/internal/apiserver/pkg/ginx"
)

// List 查询检测任务列表接口
// GET /api/v1/detections?workspace_id=ws-prod-001&page=1&limit=20
func (h *DetectionHandler) List(c *gin.Context) {
	workspaceID := c.Query("workspace_id")

	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	jobs, total, err := h.jobService.ListJobs(c.Request.Context(), workspaceID, page, limit)
	if err != nil {
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, response.FromJobEntities(jobs, total, page, limit))
}
