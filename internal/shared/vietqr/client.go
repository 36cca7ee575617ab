// Package vietqr VietQR开放接口客户端：企业税号查验与银行目录。
package vietqr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// DefaultBaseURL VietQR v2接口地址
const DefaultBaseURL = "https://api.vietqr.io/v2"

// successCode VietQR业务成功码
const successCode = "00"

// ErrTimeout 请求超时
var ErrTimeout = errors.New("vietqr: 请求超时")

// ErrTaxCodeNotFound 税号不存在或未登记
var ErrTaxCodeNotFound = errors.New("vietqr: 税号未登记")

// UpstreamError 上游返回非成功码，保留原始报文
type UpstreamError struct {
	HTTPStatus int
	Code       string
	Desc       string
	RawBody    []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("vietqr: 上游错误[http=%d code=%s]: %s", e.HTTPStatus, e.Code, e.Desc)
}

// Business 税号查验结果
type Business struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	InternationalName string `json:"internationalName"`
	ShortName        string `json:"shortName"`
	Address          string `json:"address"`
}

// Bank 银行目录条目
type Bank struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	BIN       string `json:"bin"`
	ShortName string `json:"shortName"`
	Logo      string `json:"logo"`
}

// Client VietQR客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建VietQR客户端（接口免鉴权）
func NewClient() *Client {
	return NewClientWithBaseURL(DefaultBaseURL)
}

// NewClientWithBaseURL 指定地址创建客户端（测试用）
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// doGet 执行GET请求并校验业务码
func (c *Client) doGet(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("vietqr: 创建请求失败: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ErrTimeout
		}
		return fmt.Errorf("vietqr: 请求失败: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("vietqr: 读取响应失败: %w", err)
	}

	var base struct {
		Code string          `json:"code"`
		Desc string          `json:"desc"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &base); err != nil {
		return &UpstreamError{HTTPStatus: resp.StatusCode, Desc: "响应不可解析", RawBody: raw}
	}
	if resp.StatusCode != http.StatusOK || base.Code != successCode {
		return &UpstreamError{HTTPStatus: resp.StatusCode, Code: base.Code, Desc: base.Desc, RawBody: raw}
	}
	if result != nil {
		if err := json.Unmarshal(base.Data, result); err != nil {
			return &UpstreamError{HTTPStatus: resp.StatusCode, Desc: "data字段不可解析", RawBody: raw}
		}
	}
	return nil
}

// LookupBusiness 查验企业税号，返回登记名称与地址
func (c *Client) LookupBusiness(ctx context.Context, taxCode string) (*Business, error) {
	var biz Business
	err := c.doGet(ctx, "/business/"+taxCode, &biz)
	if err != nil {
		var upErr *UpstreamError
		// VietQR对未登记税号返回业务码51
		if errors.As(err, &upErr) && upErr.Code == "51" {
			return nil, ErrTaxCodeNotFound
		}
		return nil, err
	}
	return &biz, nil
}

// ListBanks 银行目录（钱包收款账户选择用）
func (c *Client) ListBanks(ctx context.Context) ([]Bank, error) {
	var banks []Bank
	if err := c.doGet(ctx, "/banks", &banks); err != nil {
		return nil, err
	}
	return banks, nil
}
