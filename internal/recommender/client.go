package recommender

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client 推荐引擎 HTTP 客户端
// 引擎重建模型期间 /api/recommend 可能阻塞数分钟，超时由配置给定，
// 调用方不得在持锁状态下发起请求。
type Client struct {
	baseURL string
	client  *http.Client
}

// Config 客户端配置
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient 创建客户端
func NewClient(cfg *Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://127.0.0.1:5000"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Minute
	}

	return &Client{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// GetRecommendations 拉取某学生号的原始推荐列表
func (c *Client) GetRecommendations(ctx context.Context, stuID string, topN int) (*Payload, error) {
	q := url.Values{}
	q.Set("userId", stuID)
	q.Set("topN", strconv.Itoa(topN))

	body, err := c.get(ctx, "/api/recommend?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("解析推荐结果失败: %w", err)
	}
	return &payload, nil
}

// GetEvaluation 拉取离线评估指标，原样透传
func (c *Client) GetEvaluation(ctx context.Context, topK, maxUsers int) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("topK", strconv.Itoa(topK))
	q.Set("maxUsers", strconv.Itoa(maxUsers))

	body, err := c.get(ctx, "/api/evaluate?"+q.Encode())
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("请求推荐引擎失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("推荐引擎返回异常状态 %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
