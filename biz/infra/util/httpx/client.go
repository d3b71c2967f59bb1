package httpx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/cloudwego/hertz/pkg/common/json"
	"github.com/xh-polaris/brandstudio-core-api/pkg/errorx"
	"github.com/xh-polaris/brandstudio-core-api/pkg/logs"
)

// httpx/client 是工具后端调用外部供应商用的http客户端
// 只做JSON进JSON出, 状态码不在2xx时连同响应体报错

var (
	client *HttpClient
	once   sync.Once
)

const (
	GET  = "GET"
	POST = "POST"
)

type HttpClient struct {
	Client *http.Client
}

// NewHttpClient 单例模式维护一个client
func NewHttpClient() *HttpClient {
	once.Do(func() {
		client = &HttpClient{
			Client: http.DefaultClient,
		}
	})
	return client
}

func GetHttpClient() *HttpClient {
	return NewHttpClient()
}

// do 组装并发送请求
func (c *HttpClient) do(ctx context.Context, method, url string, headers http.Header, body any) (resp *http.Response, err error) {
	var bodyBytes []byte
	var req *http.Request
	if bodyBytes, err = json.Marshal(body); err != nil {
		return nil, fmt.Errorf("[httpx]请求体序列化失败: %w", err)
	}
	if req, err = http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(bodyBytes)); err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	for k, vv := range headers {
		req.Header[k] = vv
	}
	return c.Client.Do(req)
}

func checkStatusCode(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_resp, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, response body: %s", resp.StatusCode, _resp)
	}
	return nil
}

func (c *HttpClient) getResp(ctx context.Context, method, url string, headers http.Header, body any) (resp []byte, err error) {
	var response *http.Response
	if response, err = c.do(ctx, method, url, headers, body); err != nil {
		return nil, fmt.Errorf("[httpx] 发送请求失败: %w", err)
	}
	defer func() {
		if closeErr := response.Body.Close(); closeErr != nil {
			logs.Errorf("[httpx] 关闭请求失败: %s", errorx.ErrorWithoutStack(closeErr))
		}
	}()
	if err = checkStatusCode(response); err != nil {
		return nil, err
	}
	var _resp []byte
	if _resp, err = io.ReadAll(response.Body); err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	return _resp, nil
}

// Req 非流式HTTP请求
func (c *HttpClient) Req(ctx context.Context, method, url string, headers http.Header, body any) (resp map[string]any, err error) {
	var _resp []byte
	if _resp, err = c.getResp(ctx, method, url, headers, body); err != nil {
		return nil, err
	}
	if err = json.Unmarshal(_resp, &resp); err != nil {
		return nil, fmt.Errorf("反序列化响应失败: %w", err)
	}
	return resp, nil
}

// Get 非流式Get
func (c *HttpClient) Get(ctx context.Context, url string, headers http.Header, body any) (resp map[string]any, err error) {
	return c.Req(ctx, GET, url, headers, body)
}

// Post 非流式Post
func (c *HttpClient) Post(ctx context.Context, url string, headers http.Header, body any) (resp map[string]any, err error) {
	return c.Req(ctx, POST, url, headers, body)
}
