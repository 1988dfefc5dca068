package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ninetytwo-orders/internal/i18n"
	"github.com/ninetytwo-orders/internal/logger"
	"github.com/ninetytwo-orders/internal/models"
	"github.com/ninetytwo-orders/internal/sheet"

	"github.com/shopspring/decimal"
)

// OrderSettingsInput 订单设置输入，创建与修改共用；nil 表示未提供
type OrderSettingsInput struct {
	Sport             *string                `json:"sport"`
	Language          *string                `json:"language"`
	Products          []string               `json:"products"`
	Params            map[string][]string    `json:"params"`
	ParamOptions      map[string][]string    `json:"paramOptions"`
	ColumnsKeys       []string               `json:"columnsKeys"`
	CustomColumns     []sheet.ColumnOverride `json:"customColumns"`
	ColorOptions      []string               `json:"colorOptions"`
	CustomColors      []string               `json:"customColors"`
	JerseyPricingMode *string                `json:"jerseyPricingMode"`
	PriceJersey       *models.Money          `json:"priceJersey"`
	PriceShorts       *models.Money          `json:"priceShorts"`
	PriceSocks        *models.Money          `json:"priceSocks"`
	PriceCaps         *models.Money          `json:"priceCaps"`
	UnitPcsLabel      *string                `json:"unitPcsLabel"`
	UnitCurrencyLabel *string                `json:"unitCurrencyLabel"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	RowsCount *int   `json:"rowsCount"`
	OrderSettingsInput
}

// UpdateOrderRequest 修改订单请求（合并语义）
type UpdateOrderRequest struct {
	Title *string `json:"title"`
	OrderSettingsInput
}

// DuplicateColorError 自定义颜色与已有颜色重复
type DuplicateColorError struct {
	Color string
}

func (e *DuplicateColorError) Error() string {
	return fmt.Sprintf("Color %q already exists", e.Color)
}

func (e *DuplicateColorError) Unwrap() error {
	return ErrDuplicateColor
}

// orderSettings 订单配置中持久化的设置快照
type orderSettings struct {
	Sport             string                 `json:"sport"`
	Language          string                 `json:"language"`
	Products          []string               `json:"products,omitempty"`
	Params            map[string][]string    `json:"params,omitempty"`
	ParamOptions      map[string][]string    `json:"paramOptions,omitempty"`
	ColumnsKeys       []string               `json:"columnsKeys,omitempty"`
	CustomColumns     []sheet.ColumnOverride `json:"customColumns,omitempty"`
	ColorOptions      []string               `json:"colorOptions"`
	JerseyPricingMode string                 `json:"jerseyPricingMode,omitempty"`
	PriceJersey       *decimal.Decimal       `json:"priceJersey,omitempty"`
	PriceShorts       *decimal.Decimal       `json:"priceShorts,omitempty"`
	PriceSocks        *decimal.Decimal       `json:"priceSocks,omitempty"`
	PriceCaps         *decimal.Decimal       `json:"priceCaps,omitempty"`
}

func defaultOrderSettings() orderSettings {
	return orderSettings{
		Sport:        string(sheet.SportFootball),
		Language:     i18n.LangENG,
		ColorOptions: append([]string(nil), sheet.DefaultColors...),
	}
}

// settingsFromConfig 从已存配置恢复设置，无法解析的部分回退默认值
func settingsFromConfig(config map[string]interface{}) orderSettings {
	settings := defaultOrderSettings()
	if len(config) == 0 {
		return settings
	}
	raw, err := json.Marshal(config)
	if err != nil {
		return settings
	}
	var parsed orderSettings
	if err := json.Unmarshal(raw, &parsed); err != nil {
		logger.Warnw("order_settings_decode_failed", "error", err)
		return settings
	}
	parsed.Sport = string(sheet.ParseSport(parsed.Sport))
	parsed.Language = i18n.NormalizeLanguage(parsed.Language)
	if len(parsed.ColorOptions) == 0 {
		parsed.ColorOptions = settings.ColorOptions
	}
	return parsed
}

// toConfig 与已存配置合并，保留设置之外的键
func (st orderSettings) toConfig(base map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(base)+8)
	for k, v := range base {
		result[k] = v
	}
	for _, key := range []string{"products", "params", "paramOptions", "columnsKeys", "customColumns",
		"jerseyPricingMode", "priceJersey", "priceShorts", "priceSocks", "priceCaps"} {
		delete(result, key)
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return result
	}
	var encoded map[string]interface{}
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return result
	}
	for k, v := range encoded {
		result[k] = v
	}
	return result
}

// apply 合并输入，返回是否影响列定义
func (st *orderSettings) apply(in OrderSettingsInput) (bool, error) {
	changed := false
	if in.Sport != nil {
		st.Sport = string(sheet.ParseSport(*in.Sport))
		changed = true
	}
	if in.Language != nil {
		st.Language = i18n.NormalizeLanguage(*in.Language)
		changed = true
	}
	switch {
	case in.CustomColumns != nil:
		st.CustomColumns = in.CustomColumns
		st.Products, st.Params, st.ColumnsKeys = nil, nil, nil
		changed = true
	case in.Products != nil:
		st.Products = trimList(in.Products)
		st.Params = in.Params
		st.ColumnsKeys, st.CustomColumns = nil, nil
		changed = true
	case in.ColumnsKeys != nil:
		st.ColumnsKeys = trimList(in.ColumnsKeys)
		st.Products, st.Params, st.CustomColumns = nil, nil, nil
		changed = true
	case in.Params != nil:
		st.Params = in.Params
		changed = true
	}
	if in.ParamOptions != nil {
		st.ParamOptions = in.ParamOptions
		changed = true
	}
	if in.ColorOptions != nil {
		st.ColorOptions = trimList(in.ColorOptions)
		if len(st.ColorOptions) == 0 {
			st.ColorOptions = append([]string(nil), sheet.DefaultColors...)
		}
		changed = true
	}
	if len(in.CustomColors) > 0 {
		colors, err := mergeCustomColors(st.ColorOptions, in.CustomColors)
		if err != nil {
			return false, err
		}
		st.ColorOptions = colors
		changed = true
	}
	if in.JerseyPricingMode != nil {
		st.JerseyPricingMode = strings.TrimSpace(*in.JerseyPricingMode)
		changed = true
	}
	for _, item := range []struct {
		in  *models.Money
		out **decimal.Decimal
	}{
		{in.PriceJersey, &st.PriceJersey},
		{in.PriceShorts, &st.PriceShorts},
		{in.PriceSocks, &st.PriceSocks},
		{in.PriceCaps, &st.PriceCaps},
	} {
		if item.in == nil {
			continue
		}
		*item.out = item.in.Positive()
		changed = true
	}
	return changed, nil
}

// mergeCustomColors 追加自定义颜色，与默认色板或已选颜色忽略大小写重复时拒绝
func mergeCustomColors(selected, custom []string) ([]string, error) {
	pool := append([]string(nil), sheet.DefaultColors...)
	for _, color := range selected {
		if !containsFold(pool, color) {
			pool = append(pool, color)
		}
	}
	result := append([]string(nil), selected...)
	for _, color := range custom {
		next, err := sheet.AddCustomOption(pool, color)
		if errors.Is(err, sheet.ErrEmptyOption) {
			continue
		}
		if err != nil {
			return nil, &DuplicateColorError{Color: strings.TrimSpace(color)}
		}
		pool = next
		result = append(result, strings.TrimSpace(color))
	}
	return result, nil
}

func (st orderSettings) selection(book sheet.PriceBook) sheet.Selection {
	sel := sheet.Selection{
		Sport:             sheet.ParseSport(st.Sport),
		Language:          st.Language,
		ParamOptions:      make(map[string][]string, len(st.ParamOptions)+1),
		Params:            make(map[sheet.Product][]string, len(st.Params)),
		JerseyPricingMode: st.JerseyPricingMode,
		PriceJersey:       st.PriceJersey,
		PriceShorts:       st.PriceShorts,
		PriceSocks:        st.PriceSocks,
		PriceCaps:         st.PriceCaps,
		Prices:            &book,
	}
	for key, options := range st.ParamOptions {
		sel.ParamOptions[key] = append([]string(nil), options...)
	}
	if _, ok := sel.ParamOptions["jersey_color"]; !ok && len(st.ColorOptions) > 0 {
		sel.ParamOptions["jersey_color"] = append([]string(nil), st.ColorOptions...)
	}
	for _, product := range st.Products {
		sel.Products = append(sel.Products, sheet.Product(strings.ToLower(product)))
	}
	for product, params := range st.Params {
		sel.Params[sheet.Product(strings.ToLower(strings.TrimSpace(product)))] = trimList(params)
	}
	if len(st.Products) == 0 && len(st.ColumnsKeys) > 0 {
		sel = sheet.SelectionFromKeys(sel, st.ColumnsKeys)
	}
	return sel
}

// buildColumns 由设置构建列定义，未选择任何产品时返回 ErrNoProducts
func (st orderSettings) buildColumns(book sheet.PriceBook) ([]sheet.Column, error) {
	sel := st.selection(book)
	if len(st.CustomColumns) > 0 {
		columns := sheet.ApplyOverrides(sheet.CatalogColumns(sel), st.CustomColumns)
		if len(columns) == 0 {
			return nil, ErrNoProducts
		}
		return columns, nil
	}
	if len(sel.SelectedProducts()) == 0 {
		return nil, ErrNoProducts
	}
	return sheet.BuildColumns(sel), nil
}

// CreateFromRequest 按表单设置构建列定义并创建订单
func (s *OrderService) CreateFromRequest(req CreateOrderRequest) (*models.Order, error) {
	if strings.TrimSpace(req.Slug) == "" || strings.TrimSpace(req.Title) == "" {
		return nil, ErrSlugTitleRequired
	}
	settings := defaultOrderSettings()
	if _, err := settings.apply(req.OrderSettingsInput); err != nil {
		return nil, err
	}
	columns, err := settings.buildColumns(s.defaults.Prices)
	if err != nil {
		return nil, err
	}
	rows := s.defaults.Rows
	if req.RowsCount != nil {
		rows = *req.RowsCount
	}
	return s.CreateOrder(CreateOrderInput{
		Slug:              req.Slug,
		Title:             req.Title,
		Columns:           columns,
		RowsCount:         rows,
		UnitPcsLabel:      derefString(req.UnitPcsLabel),
		UnitCurrencyLabel: derefString(req.UnitCurrencyLabel),
		Config:            settings.toConfig(nil),
	})
}

// UpdateSettings 合并修改订单设置，影响列定义时重建列
func (s *OrderService) UpdateSettings(slug string, req UpdateOrderRequest) error {
	order, err := s.orderRepo.GetBySlug(slug)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	stored := map[string]interface{}(order.Config)
	settings := settingsFromConfig(stored)
	changed, err := settings.apply(req.OrderSettingsInput)
	if err != nil {
		return err
	}
	update := OrderConfigUpdate{
		Title:             req.Title,
		UnitPcsLabel:      req.UnitPcsLabel,
		UnitCurrencyLabel: req.UnitCurrencyLabel,
	}
	if changed {
		columns, err := settings.buildColumns(s.defaults.Prices)
		if err != nil {
			return err
		}
		update.Columns = columns
		update.Config = settings.toConfig(stored)
	}
	if _, err := s.UpdateOrderConfig(order.ID, update); err != nil {
		return err
	}
	logger.Infow("order_settings_updated", "order_id", order.ID, "slug", order.Slug, "columns_rebuilt", changed)
	return nil
}

func trimList(values []string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		v := strings.TrimSpace(value)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return true
		}
	}
	return false
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
