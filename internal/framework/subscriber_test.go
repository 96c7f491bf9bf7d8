package framework

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource 按脚本吐消息的假消息源
type scriptedSource struct {
	recordingSource
	remaining int64
}

func (s *scriptedSource) Consume(queue string, timeout, ttr time.Duration) (*Message, error) {
	n := atomic.AddInt64(&s.remaining, -1)
	if n < 0 {
		// 队列空，模拟超时未拉到
		return nil, nil
	}
	return &Message{ID: "job-1", Queue: queue, Data: []byte(`{}`)}, nil
}

func testSubscriberConfig() *SubscriberConfig {
	return &SubscriberConfig{
		QueueName:    "log_detect",
		Concurrency:  1,
		Rate:         time.Millisecond,
		Timeout:      time.Millisecond,
		TTR:          time.Second,
		ErrorBackoff: time.Millisecond,
	}
}

func TestSubscriberForwardsMessages(t *testing.T) {
	source := &scriptedSource{remaining: 3}
	s := NewSubscriber(testSubscriberConfig(), source, testLogger{})

	inputChan := make(chan *Message, 16)
	require.NoError(t, s.Start(context.Background(), inputChan))

	received := 0
	deadline := time.After(2 * time.Second)
	for received < 3 {
		select {
		case msg := <-inputChan:
			assert.Equal(t, "log_detect", msg.Queue)
			received++
		case <-deadline:
			t.Fatalf("timed out waiting for messages, got %d", received)
		}
	}

	s.Stop()
	s.Wait()
}

func TestSubscriberStopUnblocks(t *testing.T) {
	// 队列一直为空时 Stop 也能让订阅协程退出
	source := &scriptedSource{remaining: 0}
	s := NewSubscriber(testSubscriberConfig(), source, testLogger{})

	inputChan := make(chan *Message)
	require.NoError(t, s.Start(context.Background(), inputChan))

	time.Sleep(10 * time.Millisecond)
	s.Stop()

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not exit after Stop")
	}
}
