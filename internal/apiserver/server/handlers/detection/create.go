package detection

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"ladp/internal/apiserver/domains/apimodel/request"
	"ladp/internal/apiserver/domains/apimodel/response"
	"ladp/internal/apiserver/domains/entity/etjob"
	"ladp/internal/apiserver/pkg/ginx"
)

// Create 创建检测任务接口
// POST /api/v1/detections?wait=10
func (h *DetectionHandler) Create(c *gin.Context) {
	waitSeconds := 0
	if waitStr := c.Query("wait"); waitStr != "" {
		if w, err := strconv.Atoi(waitStr); err == nil && w > 0 {
			waitSeconds = w
		}
	}
	if waitSeconds > h.maxWaitSeconds {
		waitSeconds = h.maxWaitSeconds
	}

	var req request.CreateDetectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	job, err := req.ToJobEntity(h.defaultSpanDays, h.defaultScoreDays)
	if err != nil {
		ginx.BadRequest(c, err.Error())
		return
	}

	job, err = h.jobService.CreateDetection(c.Request.Context(), job, waitSeconds)
	if err != nil {
		ginx.InternalError(c, err.Error())
		return
	}

	if job.Status == etjob.JobStatusRunning {
		pollURL := fmt.Sprintf("/api/v1/detections/%s", job.ID)
		ginx.Processing(c, job.ID, pollURL)
		return
	}

	ginx.Success(c, response.FromJobEntity(job))
}
