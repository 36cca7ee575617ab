// Package ghn GHN（GiaoHangNhanh）物流开放平台客户端。
// 提供行政区划查询、运费与时效预估，供注册向导与生产排期使用。
package ghn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// DefaultBaseURL GHN生产环境网关
const DefaultBaseURL = "https://online-gateway.ghn.vn/shiip/public-api"

// requestTimeout 单次请求超时上限
const requestTimeout = 15 * time.Second

// ErrTimeout 请求超时，与上游错误区分，调用方可提示重试
var ErrTimeout = errors.New("ghn: 请求超时")

// UpstreamError GHN返回非成功码或响应不可解析，保留原始报文便于排查
type UpstreamError struct {
	HTTPStatus int
	Code       int
	Message    string
	RawBody    []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ghn: 上游错误[http=%d code=%d]: %s", e.HTTPStatus, e.Code, e.Message)
}

// baseResponse GHN统一响应外壳，业务成功时code=200
type baseResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client GHN客户端
type Client struct {
	baseURL    string
	token      string // 平台级API Token
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker // 上游连续失败时熔断，避免拖垮排期接口
}

// NewClient 创建GHN客户端
func NewClient(token string) *Client {
	return NewClientWithBaseURL(token, DefaultBaseURL)
}

// NewClientWithBaseURL 指定网关地址创建客户端（测试用）
func NewClientWithBaseURL(token, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "ghn",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// doRequest 执行GHN API请求：注入Token/ShopId头，经熔断器发出，
// 统一处理超时分类与GHN业务错误码，成功时把data反序列化到result。
func (c *Client) doRequest(ctx context.Context, method, path, shopID string, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("ghn: 序列化请求体失败: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("ghn: 创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Token", c.token)
	if shopID != "" {
		req.Header.Set("ShopId", shopID)
	}

	respBody, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if isTimeout(err) {
				return nil, ErrTimeout
			}
			return nil, fmt.Errorf("ghn: 请求失败: %w", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("ghn: 读取响应失败: %w", err)
		}

		var base baseResponse
		if err := json.Unmarshal(raw, &base); err != nil {
			return nil, &UpstreamError{HTTPStatus: resp.StatusCode, Message: "响应不可解析", RawBody: raw}
		}
		if resp.StatusCode != http.StatusOK || base.Code != http.StatusOK {
			return nil, &UpstreamError{HTTPStatus: resp.StatusCode, Code: base.Code, Message: base.Message, RawBody: raw}
		}
		return []byte(base.Data), nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("ghn: 熔断中，稍后重试: %w", err)
		}
		return err
	}

	if result != nil {
		data := respBody.([]byte)
		if len(data) == 0 {
			return &UpstreamError{Message: "响应缺少data字段"}
		}
		if err := json.Unmarshal(data, result); err != nil {
			return &UpstreamError{Message: "data字段不可解析", RawBody: data}
		}
	}
	return nil
}

// isTimeout 判断传输层/上下文超时
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
