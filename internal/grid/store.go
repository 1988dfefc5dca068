package grid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ninetytwo-orders/internal/sheet"
)

// Store 会话依赖的订单存储
type Store interface {
	LoadOrder(ctx context.Context, slug string) (*sheet.Document, error)
	SaveRow(ctx context.Context, slug string, rowID uint, data map[string]any) error
	AddRow(ctx context.Context, slug string) (uint, error)
	DeleteRow(ctx context.Context, slug string, rowID uint) error
}

const defaultHTTPTimeout = 15 * time.Second

// HTTPStore 通过订单 API 读写数据
type HTTPStore struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPStore 创建 HTTP 存储，baseURL 形如 http://localhost:3000
func NewHTTPStore(baseURL string) *HTTPStore {
	return &HTTPStore{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Client:  &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// LoadOrder 获取完整订单文档
func (s *HTTPStore) LoadOrder(ctx context.Context, slug string) (*sheet.Document, error) {
	body, err := s.do(ctx, http.MethodGet, s.orderPath(slug), nil)
	if err != nil {
		return nil, err
	}
	var doc sheet.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode order: %v", ErrRequestFailed, err)
	}
	return &doc, nil
}

// SaveRow 整行覆盖写入
func (s *HTTPStore) SaveRow(ctx context.Context, slug string, rowID uint, data map[string]any) error {
	_, err := s.do(ctx, http.MethodPatch, s.rowPath(slug, rowID), map[string]any{"data": data})
	return err
}

// AddRow 追加空行并返回行 ID
func (s *HTTPStore) AddRow(ctx context.Context, slug string) (uint, error) {
	body, err := s.do(ctx, http.MethodPost, s.orderPath(slug)+"/rows", nil)
	if err != nil {
		return 0, err
	}
	var resp struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.ID == 0 {
		return 0, fmt.Errorf("%w: invalid add row response", ErrRequestFailed)
	}
	return resp.ID, nil
}

// DeleteRow 删除行
func (s *HTTPStore) DeleteRow(ctx context.Context, slug string, rowID uint) error {
	_, err := s.do(ctx, http.MethodDelete, s.rowPath(slug, rowID), nil)
	return err
}

// Export 获取打印用 HTML 文档
func (s *HTTPStore) Export(ctx context.Context, slug, mode string) ([]byte, error) {
	path := s.orderPath(slug) + "/export"
	if mode = strings.TrimSpace(mode); mode != "" {
		path += "?mode=" + url.QueryEscape(mode)
	}
	return s.do(ctx, http.MethodGet, path, nil)
}

func (s *HTTPStore) orderPath(slug string) string {
	return "/api/orders/" + url.PathEscape(slug)
}

func (s *HTTPStore) rowPath(slug string, rowID uint) string {
	return s.orderPath(slug) + "/rows/" + strconv.FormatUint(uint64(rowID), 10)
}

func (s *HTTPStore) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	message := errorMessage(body)
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, message)
	}
	return nil, fmt.Errorf("%w: http status %d: %s", ErrRequestFailed, resp.StatusCode, message)
}

// errorMessage 提取 {"error": "..."} 响应中的文案
func errorMessage(body []byte) string {
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return resp.Error
	}
	return strings.TrimSpace(string(body))
}
