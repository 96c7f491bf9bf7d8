package scheduler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DetectionAPIClient 检测服务客户端接口
type DetectionAPIClient interface {
	TriggerDetection(target *DetectionTarget) error
}

// DetectionTarget 一次检测触发的参数
type DetectionTarget struct {
	WorkspaceID string `json:"workspace_id"`
	Category    string `json:"category,omitempty"`
	SpanDays    int    `json:"span_days,omitempty"`
	ScoreDays   int    `json:"score_days,omitempty"`
}

// HTTPDetectionAPIClient DetectionAPIClient 的 HTTP 实现
type HTTPDetectionAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPDetectionAPIClient 创建检测服务 HTTP 客户端
func NewHTTPDetectionAPIClient(baseURL string) *HTTPDetectionAPIClient {
	return &HTTPDetectionAPIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// TriggerDetection 调用 apiserver 创建检测任务（不等待结果）
func (c *HTTPDetectionAPIClient) TriggerDetection(target *DetectionTarget) error {
	payload, err := json.Marshal(target)
	if err != nil {
		return fmt.Errorf("marshal detection target failed: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/detections", c.baseURL)
	req, err := http.NewRequest("POST", url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call detection api at %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("detection api returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
