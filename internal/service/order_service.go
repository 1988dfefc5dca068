package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ninetytwo-orders/internal/cache"
	"github.com/ninetytwo-orders/internal/config"
	"github.com/ninetytwo-orders/internal/logger"
	"github.com/ninetytwo-orders/internal/models"
	"github.com/ninetytwo-orders/internal/repository"
	"github.com/ninetytwo-orders/internal/sheet"
)

// OrderDefaults 订单默认值
type OrderDefaults struct {
	Rows              int
	MaxRows           int
	UnitPcsLabel      string
	UnitCurrencyLabel string
	Prices            sheet.PriceBook
	RefTTL            time.Duration
}

// OrderDefaultsFromConfig 从配置读取订单默认值
func OrderDefaultsFromConfig(cfg *config.Config) OrderDefaults {
	if cfg == nil {
		return DefaultOrderDefaults()
	}
	defaults := OrderDefaults{
		Rows:              cfg.Order.DefaultRows,
		MaxRows:           cfg.Order.MaxRows,
		UnitPcsLabel:      cfg.Order.UnitPcsLabel,
		UnitCurrencyLabel: cfg.Order.UnitCurrencyLabel,
		Prices:            cfg.Pricing.PriceBook(),
		RefTTL:            time.Duration(cfg.Order.OrderCacheTTLSeconds) * time.Second,
	}
	return defaults.normalize()
}

// DefaultOrderDefaults 内置默认值
func DefaultOrderDefaults() OrderDefaults {
	return OrderDefaults{Prices: sheet.DefaultPriceBook()}.normalize()
}

func (d OrderDefaults) normalize() OrderDefaults {
	if d.Rows < 0 {
		d.Rows = 0
	}
	if d.Rows == 0 {
		d.Rows = 20
	}
	if d.MaxRows <= 0 {
		d.MaxRows = 500
	}
	if strings.TrimSpace(d.UnitPcsLabel) == "" {
		d.UnitPcsLabel = "pcs"
	}
	if strings.TrimSpace(d.UnitCurrencyLabel) == "" {
		d.UnitCurrencyLabel = "EUR"
	}
	if d.Prices == (sheet.PriceBook{}) {
		d.Prices = sheet.DefaultPriceBook()
	}
	return d
}

// OrderService 订单服务
type OrderService struct {
	orderRepo repository.OrderRepository
	rowRepo   repository.RowRepository
	defaults  OrderDefaults
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, rowRepo repository.RowRepository, defaults OrderDefaults) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		rowRepo:   rowRepo,
		defaults:  defaults.normalize(),
	}
}

// Defaults 当前订单默认值
func (s *OrderService) Defaults() OrderDefaults {
	return s.defaults
}

// CreateOrderInput 创建订单输入（已构建好的列定义）
type CreateOrderInput struct {
	Slug              string
	Title             string
	Columns           []sheet.Column
	RowsCount         int
	UnitPcsLabel      string
	UnitCurrencyLabel string
	Config            map[string]interface{}
}

// OrderSummary 订单列表项
type OrderSummary struct {
	ID        uint      `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderConfigUpdate 订单整体配置更新，nil 字段保持不变
type OrderConfigUpdate struct {
	Title             *string
	Columns           []sheet.Column
	Config            map[string]interface{}
	UnitPcsLabel      *string
	UnitCurrencyLabel *string
}

// CreateOrder 创建订单与空行；slug 冲突时返回存储层原始错误
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	slug := strings.TrimSpace(input.Slug)
	title := strings.TrimSpace(input.Title)
	if slug == "" || title == "" {
		return nil, ErrSlugTitleRequired
	}
	rows := input.RowsCount
	if rows < 0 {
		rows = 0
	}
	if rows > s.defaults.MaxRows {
		return nil, fmt.Errorf("%w: rowsCount %d exceeds %d", ErrTooManyRows, rows, s.defaults.MaxRows)
	}
	order := &models.Order{
		Slug:              slug,
		Title:             title,
		Columns:           models.ColumnList(sheet.CloneColumns(input.Columns)),
		Config:            models.LenientJSON(input.Config),
		UnitPcsLabel:      firstNonBlank(input.UnitPcsLabel, s.defaults.UnitPcsLabel),
		UnitCurrencyLabel: firstNonBlank(input.UnitCurrencyLabel, s.defaults.UnitCurrencyLabel),
	}
	if order.Config == nil {
		order.Config = models.LenientJSON{}
	}
	if err := s.orderRepo.Create(order, rows); err != nil {
		return nil, err
	}
	logger.Infow("order_created", "order_id", order.ID, "slug", order.Slug, "rows", rows, "columns", len(order.Columns))
	return order, nil
}

// GetOrderBySlug 获取完整订单文档，不存在返回 nil
func (s *OrderService) GetOrderBySlug(slug string) (*sheet.Document, error) {
	order, err := s.orderRepo.GetBySlug(slug)
	if err != nil || order == nil {
		return nil, err
	}
	doc := toDocument(order)
	return &doc, nil
}

// AddRow 追加空行，返回新行 ID；行数已达上限时拒绝
func (s *OrderService) AddRow(orderID uint) (uint, error) {
	count, err := s.rowRepo.CountByOrder(orderID)
	if err != nil {
		return 0, err
	}
	if count >= int64(s.defaults.MaxRows) {
		return 0, fmt.Errorf("%w: order already has %d rows", ErrTooManyRows, count)
	}
	row, err := s.rowRepo.Create(orderID)
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

// UpdateRow 覆盖行数据，(orderID,rowID) 不匹配时返回 false
func (s *OrderService) UpdateRow(orderID, rowID uint, data map[string]interface{}) (bool, error) {
	return s.rowRepo.UpdateData(orderID, rowID, models.JSON(data))
}

// DeleteRow 删除行
func (s *OrderService) DeleteRow(orderID, rowID uint) (bool, error) {
	return s.rowRepo.Delete(orderID, rowID)
}

// DeleteOrder 删除订单及全部行
func (s *OrderService) DeleteOrder(orderID uint) (bool, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return false, err
	}
	deleted, err := s.orderRepo.Delete(orderID)
	if err != nil || !deleted {
		return deleted, err
	}
	if order != nil {
		if err := cache.DelOrderRef(context.Background(), order.Slug); err != nil {
			logger.Warnw("order_ref_cache_delete_failed", "slug", order.Slug, "error", err)
		}
	}
	logger.Infow("order_deleted", "order_id", orderID)
	return true, nil
}

// ListOrders 订单列表，最新在前
func (s *OrderService) ListOrders() ([]OrderSummary, error) {
	orders, err := s.orderRepo.List()
	if err != nil {
		return nil, err
	}
	result := make([]OrderSummary, 0, len(orders))
	for _, order := range orders {
		result = append(result, OrderSummary{
			ID:        order.ID,
			Slug:      order.Slug,
			Title:     order.Title,
			CreatedAt: order.CreatedAt,
		})
	}
	return result, nil
}

// UpdateOrderConfig 整体替换列定义、配置与单位文案
func (s *OrderService) UpdateOrderConfig(orderID uint, update OrderConfigUpdate) (bool, error) {
	updates := make(map[string]interface{})
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return false, ErrSlugTitleRequired
		}
		updates["title"] = title
	}
	if update.Columns != nil {
		updates["columns_json"] = models.ColumnList(sheet.CloneColumns(update.Columns))
	}
	if update.Config != nil {
		updates["config_json"] = models.LenientJSON(update.Config)
	}
	if update.UnitPcsLabel != nil {
		updates["unit_pcs_label"] = firstNonBlank(*update.UnitPcsLabel, s.defaults.UnitPcsLabel)
	}
	if update.UnitCurrencyLabel != nil {
		updates["unit_currency_label"] = firstNonBlank(*update.UnitCurrencyLabel, s.defaults.UnitCurrencyLabel)
	}
	return s.orderRepo.UpdateSettings(orderID, updates)
}

func toDocument(order *models.Order) sheet.Document {
	config := map[string]interface{}(order.Config)
	if config == nil {
		config = map[string]interface{}{}
	}
	doc := sheet.Document{
		ID:      order.ID,
		Slug:    order.Slug,
		Title:   order.Title,
		Columns: []sheet.Column(order.Columns),
		Config:  config,
		UnitLabels: sheet.UnitLabels{
			Pcs:      order.UnitPcsLabel,
			Currency: order.UnitCurrencyLabel,
		},
		Rows: make([]sheet.Row, 0, len(order.Rows)),
	}
	if doc.Columns == nil {
		doc.Columns = []sheet.Column{}
	}
	for _, row := range order.Rows {
		data := map[string]interface{}(row.Data)
		if data == nil {
			data = map[string]interface{}{}
		}
		doc.Rows = append(doc.Rows, sheet.Row{ID: row.ID, Data: data, UpdatedAt: row.UpdatedAt})
	}
	return doc
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
