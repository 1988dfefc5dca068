package sheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ninetytwo-orders/internal/i18n"

	"github.com/shopspring/decimal"
)

var (
	// ErrDuplicateOption 自定义选项重复（忽略大小写）
	ErrDuplicateOption = errors.New("option already exists")
	// ErrEmptyOption 自定义选项为空
	ErrEmptyOption = errors.New("option is empty")
)

// Selection 列构建输入
type Selection struct {
	Sport             Sport
	Language          string
	Products          []Product
	Params            map[Product][]string
	ParamOptions      map[string][]string
	JerseyPricingMode string
	PriceJersey       *decimal.Decimal
	PriceShorts       *decimal.Decimal
	PriceSocks        *decimal.Decimal
	PriceCaps         *decimal.Decimal
	Prices            *PriceBook
}

func (s Selection) priceBook() PriceBook {
	if s.Prices != nil {
		return *s.Prices
	}
	return DefaultPriceBook()
}

func (s Selection) selected(product Product) bool {
	for _, item := range s.Products {
		if item == product {
			return true
		}
	}
	return false
}

// SelectedProducts 返回已选且该运动项目提供的产品（固定顺序）
func (s Selection) SelectedProducts() []Product {
	result := make([]Product, 0, len(productOrder))
	for _, product := range productOrder {
		if s.selected(product) && ProductOffered(s.Sport, product) {
			result = append(result, product)
		}
	}
	return result
}

// ResolvePricing 计算各产品线最终单价
func (s Selection) ResolvePricing() Pricing {
	book := s.priceBook()
	jersey, mode := book.JerseyPrice(s.Sport, s.JerseyPricingMode)
	pricing := Pricing{
		Jersey:     jersey,
		Shorts:     book.Shorts,
		Socks:      book.Socks,
		Caps:       book.Caps,
		JerseyMode: mode,
	}
	if s.PriceJersey != nil {
		pricing.Jersey = *s.PriceJersey
	}
	if s.PriceShorts != nil {
		pricing.Shorts = *s.PriceShorts
	}
	if s.PriceSocks != nil {
		pricing.Socks = *s.PriceSocks
	}
	if s.PriceCaps != nil {
		pricing.Caps = *s.PriceCaps
	}
	return pricing
}

type columnList struct {
	columns []Column
	seen    map[string]struct{}
}

func (l *columnList) add(col Column) {
	if _, ok := l.seen[col.Key]; ok {
		return
	}
	l.seen[col.Key] = struct{}{}
	l.columns = append(l.columns, col)
}

// BuildColumns 按选择构建有序列定义
func BuildColumns(sel Selection) []Column {
	lang := i18n.NormalizeLanguage(sel.Language)
	list := &columnList{seen: make(map[string]struct{})}
	list.add(Column{Key: KeyName, Label: i18n.Label(lang, KeyName), Type: TypeText})
	list.add(Column{Key: KeyNumber, Label: i18n.Label(lang, KeyNumber), Type: TypeText})

	products := sel.SelectedProducts()
	measured := false
	for _, product := range products {
		spec := productSpecs[product]
		for _, key := range spec.BaseFields {
			list.add(Column{Key: key, Label: i18n.Label(lang, key), Type: TypeText})
		}
		opted := make(map[string]struct{}, len(sel.Params[product]))
		for _, key := range sel.Params[product] {
			opted[strings.TrimSpace(key)] = struct{}{}
		}
		for _, param := range spec.Params {
			if _, ok := opted[param.Key]; !ok {
				continue
			}
			if param.SizeBearing && !measured {
				list.add(Column{Key: KeyHeight, Label: i18n.Label(lang, KeyHeight), Type: TypeNumber})
				list.add(Column{Key: KeyWeight, Label: i18n.Label(lang, KeyWeight), Type: TypeNumber})
				measured = true
			}
			list.add(Column{
				Key:     param.Key,
				Label:   i18n.Label(lang, param.Key),
				Type:    TypeSelect,
				Options: resolveOptions(sel.Sport, param.Key, sel.ParamOptions[param.Key]),
			})
		}
		list.add(Column{Key: spec.QtyKey, Label: i18n.Label(lang, spec.QtyKey), Type: TypeNumber})
	}

	pricing := sel.ResolvePricing()
	for _, product := range products {
		spec := productSpecs[product]
		price := pricing.PriceFor(product)
		list.add(Column{Key: spec.PriceKey, Label: i18n.Label(lang, spec.PriceKey), Type: TypeFixed, Default: &price})
	}
	if len(products) > 0 {
		p := pricing
		list.add(Column{
			Key:     KeyTotalPrice,
			Label:   i18n.Label(lang, KeyTotalPrice),
			Type:    TypeFormula,
			Formula: FormulaTotalPrice,
			Pricing: &p,
		})
	}
	return list.columns
}

// resolveOptions 基础选项中被选中的（按基础顺序）加上自定义值
func resolveOptions(sport Sport, param string, selected []string) []string {
	base := ParamOptionsForSport(sport, param)
	if len(selected) == 0 {
		return base
	}
	picked := make(map[string]struct{}, len(selected))
	for _, value := range selected {
		if v := strings.TrimSpace(value); v != "" {
			picked[v] = struct{}{}
		}
	}
	result := make([]string, 0, len(picked))
	seen := make(map[string]struct{}, len(picked))
	for _, option := range base {
		if _, ok := picked[option]; ok {
			result = append(result, option)
			seen[option] = struct{}{}
		}
	}
	for _, value := range selected {
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
	if len(result) == 0 {
		return base
	}
	return result
}

// AddCustomOption 追加自定义选项，忽略大小写重复时拒绝
func AddCustomOption(options []string, value string) ([]string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return options, ErrEmptyOption
	}
	for _, option := range options {
		if strings.EqualFold(option, v) {
			return options, fmt.Errorf("%w: %q", ErrDuplicateOption, v)
		}
	}
	return append(append([]string(nil), options...), v), nil
}

// SelectionFromKeys 由平铺列键列表推导选择（兼容旧版表单）
func SelectionFromKeys(sel Selection, keys []string) Selection {
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		set[strings.TrimSpace(key)] = struct{}{}
	}
	sel.Products = nil
	sel.Params = make(map[Product][]string)
	for _, product := range ProductsForSport(sel.Sport) {
		spec := productSpecs[product]
		hit := false
		for _, key := range spec.Keys() {
			if _, ok := set[key]; ok {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		sel.Products = append(sel.Products, product)
		for _, param := range spec.Params {
			if _, ok := set[param.Key]; ok {
				sel.Params[product] = append(sel.Params[product], param.Key)
			}
		}
	}
	return sel
}

// ColumnOverride 自定义列覆盖项
type ColumnOverride struct {
	Key               string           `json:"key"`
	Label             string           `json:"label"`
	Options           []string         `json:"options"`
	Default           *decimal.Decimal `json:"default"`
	PriceJersey       *decimal.Decimal `json:"priceJersey"`
	PriceShorts       *decimal.Decimal `json:"priceShorts"`
	PriceSocks        *decimal.Decimal `json:"priceSocks"`
	PriceCaps         *decimal.Decimal `json:"priceCaps"`
	JerseyPricingMode string           `json:"jerseyPricingMode"`
}

// CatalogColumns 该运动项目全部产品与参数的列全集
func CatalogColumns(sel Selection) []Column {
	sel.Products = ProductsForSport(sel.Sport)
	sel.Params = make(map[Product][]string)
	for _, product := range sel.Products {
		for _, param := range productSpecs[product].Params {
			sel.Params[product] = append(sel.Params[product], param.Key)
		}
	}
	return BuildColumns(sel)
}

// ApplyOverrides 按覆盖列表筛选并改写列全集，结果为空时返回 nil
func ApplyOverrides(catalog []Column, overrides []ColumnOverride) []Column {
	if len(overrides) == 0 {
		return nil
	}
	byKey := make(map[string]Column, len(catalog))
	for _, col := range CloneColumns(catalog) {
		byKey[col.Key] = col
	}
	list := &columnList{seen: make(map[string]struct{})}
	for _, item := range overrides {
		base, ok := byKey[strings.TrimSpace(item.Key)]
		if !ok {
			continue
		}
		col := base
		if label := strings.TrimSpace(item.Label); label != "" {
			col.Label = label
		}
		if col.Type == TypeSelect && len(item.Options) > 0 {
			options := make([]string, 0, len(item.Options))
			seen := make(map[string]struct{}, len(item.Options))
			for _, option := range item.Options {
				v := strings.TrimSpace(option)
				if v == "" {
					continue
				}
				if _, dup := seen[v]; dup {
					continue
				}
				seen[v] = struct{}{}
				options = append(options, v)
			}
			if len(options) > 0 {
				col.Options = options
			}
		}
		if col.Type == TypeFixed && item.Default != nil {
			d := *item.Default
			col.Default = &d
		}
		if col.Type == TypeFormula && col.Pricing != nil {
			pricing := *col.Pricing
			if item.PriceJersey != nil {
				pricing.Jersey = *item.PriceJersey
			}
			if item.PriceShorts != nil {
				pricing.Shorts = *item.PriceShorts
			}
			if item.PriceSocks != nil {
				pricing.Socks = *item.PriceSocks
			}
			if item.PriceCaps != nil {
				pricing.Caps = *item.PriceCaps
			}
			if mode := strings.TrimSpace(item.JerseyPricingMode); mode != "" {
				pricing.JerseyMode = mode
			}
			col.Pricing = &pricing
		}
		list.add(col)
	}
	if len(list.columns) == 0 {
		return nil
	}
	return list.columns
}
