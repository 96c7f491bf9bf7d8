package framework

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bitleak/lmstfy/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ladp/pkg/lmstfyx"
)

// testLogger 测试用空日志
type testLogger struct{}

func (testLogger) Debugf(ctx context.Context, format string, args ...interface{}) {}
func (testLogger) Infof(ctx context.Context, format string, args ...interface{})  {}
func (testLogger) Warnf(ctx context.Context, format string, args ...interface{})  {}
func (testLogger) Errorf(ctx context.Context, format string, args ...interface{}) {}

// sourceCall 记录一次消息源调用
type sourceCall struct {
	op              string // ack/release/bury
	queue           string
	jobID           string
	delay           uint32
	deadLetterQueue string
}

// recordingSource 记录所有回执调用的假消息源
type recordingSource struct {
	mu    sync.Mutex
	calls []sourceCall
}

func (r *recordingSource) Consume(queue string, timeout, ttr time.Duration) (*Message, error) {
	return nil, nil
}

func (r *recordingSource) Ack(queue, jobID string) error {
	r.record(sourceCall{op: "ack", queue: queue, jobID: jobID})
	return nil
}

func (r *recordingSource) Release(queue, jobID string, data []byte, delay uint32) error {
	r.record(sourceCall{op: "release", queue: queue, jobID: jobID, delay: delay})
	return nil
}

func (r *recordingSource) Bury(queue, deadLetterQueue, jobID string, data []byte) error {
	r.record(sourceCall{op: "bury", queue: queue, jobID: jobID, deadLetterQueue: deadLetterQueue})
	return nil
}

func (r *recordingSource) record(c sourceCall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

func (r *recordingSource) snapshot() []sourceCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sourceCall, len(r.calls))
	copy(out, r.calls)
	return out
}

func testProcessorConfig() *ProcessorConfig {
	return &ProcessorConfig{
		Concurrency:     1,
		BufferSize:      16,
		Timeout:         5 * time.Second,
		ReleaseDelay:    30 * time.Second,
		DeadLetterQueue: "log_detect_dead",
	}
}

func constProc(action lmstfyx.JobRespStatus) lmstfyx.Proc {
	return func(ctx context.Context, job *client.Job) *lmstfyx.JobResp {
		return &lmstfyx.JobResp{Action: action}
	}
}

func TestProcessorReport(t *testing.T) {
	msg := &Message{ID: "job-1", Queue: "log_detect", Data: []byte(`{}`)}

	t.Run("成功时 ACK", func(t *testing.T) {
		source := &recordingSource{}
		p := NewProcessor(testProcessorConfig(), source, constProc(lmstfyx.JobRespStatusSuccess), testLogger{})

		p.report(context.Background(), msg, &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusSuccess})

		calls := source.snapshot()
		require.Len(t, calls, 1)
		assert.Equal(t, "ack", calls[0].op)
		assert.Equal(t, "log_detect", calls[0].queue)
		assert.Equal(t, "job-1", calls[0].jobID)
	})

	t.Run("重试时 Release 带延迟", func(t *testing.T) {
		source := &recordingSource{}
		p := NewProcessor(testProcessorConfig(), source, constProc(lmstfyx.JobRespStatusRelease), testLogger{})

		p.report(context.Background(), msg, &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusRelease})

		calls := source.snapshot()
		require.Len(t, calls, 1)
		assert.Equal(t, "release", calls[0].op)
		assert.Equal(t, uint32(30), calls[0].delay)
	})

	t.Run("失败时 Bury 到死信队列", func(t *testing.T) {
		source := &recordingSource{}
		p := NewProcessor(testProcessorConfig(), source, constProc(lmstfyx.JobRespStatusBury), testLogger{})

		p.report(context.Background(), msg, &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury})

		calls := source.snapshot()
		require.Len(t, calls, 1)
		assert.Equal(t, "bury", calls[0].op)
		assert.Equal(t, "log_detect_dead", calls[0].deadLetterQueue)
	})
}

func TestProcessorDrain(t *testing.T) {
	// 预先塞满缓冲，验证 Drain 模式处理完剩余消息再退出
	source := &recordingSource{}
	var processed sync.Map
	proc := func(ctx context.Context, job *client.Job) *lmstfyx.JobResp {
		processed.Store(job.ID, true)
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusSuccess}
	}

	cfg := testProcessorConfig()
	cfg.Concurrency = 2
	p := NewProcessor(cfg, source, proc, testLogger{})

	inputChan := make(chan *Message, cfg.BufferSize)
	require.NoError(t, p.Start(context.Background(), inputChan))

	ids := []string{"job-1", "job-2", "job-3", "job-4", "job-5"}
	for _, id := range ids {
		inputChan <- &Message{ID: id, Queue: "log_detect", Data: []byte(`{}`)}
	}

	p.SignalShutdown()
	p.Wait()

	for _, id := range ids {
		_, ok := processed.Load(id)
		assert.True(t, ok, "message %s not processed before exit", id)
	}
	assert.Len(t, source.snapshot(), len(ids))
}

func TestProcessorNilMessage(t *testing.T) {
	source := &recordingSource{}
	p := NewProcessor(testProcessorConfig(), source, constProc(lmstfyx.JobRespStatusSuccess), testLogger{})

	// nil 消息直接丢弃，不产生回执
	p.process(context.Background(), nil, 0)
	assert.Empty(t, source.snapshot())
}
