package seekapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config 远端 Seek API 配置
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client 远端 Seek API 客户端。实现房源向导和租约流程需要的全部网关接口
type Client struct {
	http *resty.Client
}

// New 创建客户端。不做重试，失败由调用方决定
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "Seek-Immo/1.0")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}
	return &Client{http: client}
}

// APIError 远端拒绝。Message 取自响应体的 message 字段
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("seek api: status %d", e.Status)
	}
	return fmt.Sprintf("seek api: status %d: %s", e.Status, e.Message)
}

// UserMessage 服务端提示，可能为空
func (e *APIError) UserMessage() string {
	return e.Message
}

// envelope 统一响应 {"code":0,"message":"success","data":...}
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("请求 %s %s 失败: %w", method, path, err)
	}

	var env envelope
	// 非 JSON 响应（网关错误页等）只保留状态码
	_ = json.Unmarshal(resp.Body(), &env)

	if resp.IsError() {
		return &APIError{Status: resp.StatusCode(), Message: env.Message}
	}
	if env.Code != 0 {
		return &APIError{Status: env.Code, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("解析 %s 响应失败: %w", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}
