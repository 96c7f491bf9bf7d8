package lmstfy

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish(t *testing.T) {
	t.Run("PUT 到队列端点", func(t *testing.T) {
		var gotPath, gotToken, gotBody string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			gotPath = r.URL.Path
			gotToken = r.Header.Get("X-Token")
			assert.Equal(t, "3600", r.URL.Query().Get("ttl"))
			assert.Equal(t, "3", r.URL.Query().Get("tries"))
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "ladp", "secret")
		err := c.Publish(context.Background(), "log_detect_callback", map[string]string{"job_id": "job-1"})
		require.NoError(t, err)

		assert.Equal(t, "/api/ladp/log_detect_callback", gotPath)
		assert.Equal(t, "secret", gotToken)
		assert.JSONEq(t, `{"job_id":"job-1"}`, gotBody)
	})

	t.Run("非 2xx 返回错误", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "ladp", "wrong")
		assert.ErrorContains(t, c.Publish(context.Background(), "q", "x"), "status=401")
	})
}

func TestConsume(t *testing.T) {
	t.Run("解析消息并解码 base64 数据", func(t *testing.T) {
		payload := `{"job_id":"job-1","status":"SUCCESS"}`
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "3", r.URL.Query().Get("timeout"))
			assert.Equal(t, "30", r.URL.Query().Get("ttr"))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"job_id":"msg-1","data":"` +
				base64.StdEncoding.EncodeToString([]byte(payload)) + `"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "ladp", "secret")
		msg, err := c.Consume(context.Background(), "log_detect_callback", 3, 30)
		require.NoError(t, err)
		require.NotNil(t, msg)

		assert.Equal(t, "msg-1", msg.JobID)
		assert.JSONEq(t, payload, string(msg.Data))
	})

	t.Run("404 表示队列为空", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "ladp", "")
		msg, err := c.Consume(context.Background(), "q", 3, 30)
		assert.NoError(t, err)
		assert.Nil(t, msg)
	})

	t.Run("非法 base64 返回错误", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"job_id":"msg-1","data":"%%%not-base64%%%"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "ladp", "")
		_, err := c.Consume(context.Background(), "q", 3, 30)
		assert.ErrorContains(t, err, "base64")
	})
}

func TestAck(t *testing.T) {
	t.Run("DELETE 指定消息", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "ladp", "secret")
		require.NoError(t, c.Ack(context.Background(), "log_detect_callback", "msg-1"))
		assert.Equal(t, "/api/ladp/log_detect_callback/job/msg-1", gotPath)
	})

	t.Run("失败状态返回错误", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "ladp", "")
		assert.ErrorContains(t, c.Ack(context.Background(), "q", "msg-1"), "status=500")
	})
}
