// Package service 提供外部协作方的 HTTP 客户端实现。
//
// 分类引擎是独立部署的服务，本包只做客户端对接；
// 查重核心通过 core.CategoryClassifier 接口消费它，不感知传输细节。
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mdmkit/mdmkit/core"
)

// AuthConfig 认证配置
type AuthConfig struct {
	Type     string // "basic", "bearer", "api_key"
	Username string
	Password string
	Token    string
	APIKey   string
}

// ClassifierClient 是分类引擎的 HTTP 客户端实现。
//
// REST API 格式：
//   - 分类端点：POST /v1/classify
//   - 请求体：{"name": "...", "specifications": "...", "manufacturer": "..."}
//   - 响应：{"category": "...", "confidence": 0.92}
//
// 使用场景：
//   - 重复组的 master 缺少物料类别时补充建议类别
//   - 只丰富输出，分类结果不参与聚类决策
type ClassifierClient struct {
	// Endpoint 服务根地址，如 "http://localhost:8080"
	Endpoint string

	// Timeout 请求超时
	Timeout time.Duration

	// Auth 认证信息
	Auth *AuthConfig

	httpClient *http.Client
}

// NewClassifierClient 创建分类引擎客户端。
func NewClassifierClient(endpoint string, opts ...ClassifierOption) *ClassifierClient {
	client := &ClassifierClient{
		Endpoint: endpoint,
		Timeout:  30 * time.Second,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{
			Timeout: client.Timeout,
		}
	}

	return client
}

// ClassifierOption 分类客户端配置选项
type ClassifierOption func(*ClassifierClient)

// WithClassifierTimeout 设置超时时间
func WithClassifierTimeout(timeout time.Duration) ClassifierOption {
	return func(c *ClassifierClient) {
		c.Timeout = timeout
		if c.httpClient != nil {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithClassifierAuth 设置认证信息
func WithClassifierAuth(auth *AuthConfig) ClassifierOption {
	return func(c *ClassifierClient) {
		c.Auth = auth
	}
}

// WithClassifierHTTPClient 设置自定义 HTTP 客户端
func WithClassifierHTTPClient(httpClient *http.Client) ClassifierOption {
	return func(c *ClassifierClient) {
		c.httpClient = httpClient
	}
}

func (c *ClassifierClient) Name() string { return "classifier.http" }

type classifyRequest struct {
	Name           string `json:"name"`
	Specifications string `json:"specifications,omitempty"`
	Manufacturer   string `json:"manufacturer,omitempty"`
}

type classifyResponse struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Suggest 调用分类引擎，返回建议类别与置信度。
func (c *ClassifierClient) Suggest(ctx context.Context, master *core.MaterialIdentity) (string, float64, error) {
	if master == nil || master.Name == "" {
		return "", 0, fmt.Errorf("master record with name is required")
	}

	body, err := json.Marshal(classifyRequest{
		Name:           master.Name,
		Specifications: master.Specifications,
		Manufacturer:   master.Manufacturer,
	})
	if err != nil {
		return "", 0, fmt.Errorf("marshal request: %w", err)
	}

	url := c.Endpoint + "/v1/classify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.applyAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("classify failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result classifyResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", 0, fmt.Errorf("parse response: %w", err)
	}
	return result.Category, result.Confidence, nil
}

// Health 健康检查：GET /healthz
func (c *ClassifierClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"/healthz", nil)
	if err != nil {
		return err
	}
	c.applyAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status %d", resp.StatusCode)
	}
	return nil
}

func (c *ClassifierClient) applyAuth(req *http.Request) {
	if c.Auth == nil {
		return
	}
	switch c.Auth.Type {
	case "basic":
		req.SetBasicAuth(c.Auth.Username, c.Auth.Password)
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+c.Auth.Token)
	case "api_key":
		req.Header.Set("X-API-Key", c.Auth.APIKey)
	}
}

var _ core.CategoryClassifier = (*ClassifierClient)(nil)
