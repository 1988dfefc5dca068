package sheet

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Sport 运动项目
type Sport string

const (
	SportFootball Sport = "Football"
	SportHockey   Sport = "Hockey"
	SportOther    Sport = "Other"
)

// ParseSport 解析运动项目，未知值回退为 Football
func ParseSport(raw string) Sport {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "hockey":
		return SportHockey
	case "other":
		return SportOther
	default:
		return SportFootball
	}
}

// Sports 全部运动项目
func Sports() []Sport {
	return []Sport{SportFootball, SportHockey, SportOther}
}

// Product 产品线
type Product string

const (
	ProductJersey Product = "jersey"
	ProductShorts Product = "shorts"
	ProductSocks  Product = "socks"
	ProductCaps   Product = "caps"
)

// productOrder 产品固定排列顺序
var productOrder = []Product{ProductJersey, ProductShorts, ProductSocks, ProductCaps}

// ParamSpec 产品参数定义
type ParamSpec struct {
	Key         string `json:"key"`
	SizeBearing bool   `json:"sizeBearing"`
}

// ProductSpec 产品定义
type ProductSpec struct {
	Product    Product     `json:"product"`
	BaseFields []string    `json:"baseFields"`
	Params     []ParamSpec `json:"params"`
	QtyKey     string      `json:"qtyKey"`
	PriceKey   string      `json:"priceKey"`
}

// Keys 产品涉及的全部列键
func (p ProductSpec) Keys() []string {
	keys := append([]string(nil), p.BaseFields...)
	for _, param := range p.Params {
		keys = append(keys, param.Key)
	}
	return append(keys, p.QtyKey, p.PriceKey)
}

var productSpecs = map[Product]ProductSpec{
	ProductJersey: {
		Product: ProductJersey,
		Params: []ParamSpec{
			{Key: "size", SizeBearing: true},
			{Key: "jersey_color"},
			{Key: "jersey_type"},
		},
		QtyKey:   "qty_jersey",
		PriceKey: "price_jersey",
	},
	ProductShorts: {
		Product: ProductShorts,
		Params: []ParamSpec{
			{Key: "size_shorts", SizeBearing: true},
			{Key: "jersey_color"},
		},
		QtyKey:   "qty_shorts",
		PriceKey: "price_shorts",
	},
	ProductSocks: {
		Product: ProductSocks,
		Params: []ParamSpec{
			{Key: "size_socks", SizeBearing: true},
			{Key: "jersey_color"},
		},
		QtyKey:   "qty_socks",
		PriceKey: "price_socks",
	},
	ProductCaps: {
		Product:    ProductCaps,
		BaseFields: []string{"cap"},
		Params: []ParamSpec{
			{Key: "cap_style"},
			{Key: "cap_logo"},
			{Key: "cap_visor"},
			{Key: "cap_fastener"},
			{Key: "cap_size"},
		},
		QtyKey:   "qty_caps",
		PriceKey: "price_caps",
	},
}

// sportProducts 各运动项目提供的产品
var sportProducts = map[Sport][]Product{
	SportFootball: {ProductJersey, ProductShorts},
	SportHockey:   {ProductJersey, ProductShorts, ProductSocks},
	SportOther:    {ProductCaps},
}

// ProductSpecFor 查询产品定义
func ProductSpecFor(product Product) (ProductSpec, bool) {
	spec, ok := productSpecs[product]
	return spec, ok
}

// ProductsForSport 返回运动项目下的产品（固定顺序）
func ProductsForSport(sport Sport) []Product {
	offered := sportProducts[sport]
	result := make([]Product, 0, len(offered))
	for _, product := range productOrder {
		for _, item := range offered {
			if item == product {
				result = append(result, product)
				break
			}
		}
	}
	return result
}

// ProductOffered 判断运动项目是否提供该产品
func ProductOffered(sport Sport, product Product) bool {
	for _, item := range sportProducts[sport] {
		if item == product {
			return true
		}
	}
	return false
}

// ProductLine 产品线数量/价格列对
type ProductLine struct {
	Product  Product
	QtyKey   string
	PriceKey string
}

// ProductLines 全部产品线（固定顺序）
func ProductLines() []ProductLine {
	lines := make([]ProductLine, 0, len(productOrder))
	for _, product := range productOrder {
		spec := productSpecs[product]
		lines = append(lines, ProductLine{Product: product, QtyKey: spec.QtyKey, PriceKey: spec.PriceKey})
	}
	return lines
}

var defaultSizes = []string{"XS", "S", "M", "L", "XL", "2XL", "3XL", "4XL", "5XL"}

var hockeySizes = []string{"110", "120", "130", "140", "150", "160/M", "170/L", "180/XL", "190/XXL", "190/3XL"}

// DefaultColors 默认色板
var DefaultColors = []string{"Red", "Blue", "White", "Yellow", "Black", "Green", "Orange", "Purple", "Pink", "Gray"}

// defaultParamOptions 参数默认选项表
var defaultParamOptions = map[string][]string{
	"size":         defaultSizes,
	"size_shorts":  defaultSizes,
	"size_socks":   defaultSizes,
	"jersey_color": DefaultColors,
	"jersey_type":  {"Long", "Short"},
	"cap_style":    {"6 panel cap", "trucker cap with a mesh at the backside"},
	"cap_logo":     {"Embroidery", "Print", "Patch"},
	"cap_visor":    {"Curved visor", "Flat visor"},
	"cap_fastener": {"plastic snap closure", "metal buckle", "velcro"},
	"cap_size":     {"Adult", "Youth", "Kids"},
}

// sportParamOptions (运动项目, 参数) 选项表
var sportParamOptions = map[Sport]map[string][]string{
	SportHockey: {
		"size":        hockeySizes,
		"size_shorts": hockeySizes,
		"size_socks":  {"YTH", "JR", "INT", "SR"},
	},
}

// ParamOptionsForSport 返回参数选项列表，缺省时回退到默认列表
func ParamOptionsForSport(sport Sport, param string) []string {
	if options, ok := sportParamOptions[sport][param]; ok && len(options) > 0 {
		return append([]string(nil), options...)
	}
	return append([]string(nil), defaultParamOptions[param]...)
}

// PricingMode 球衣定价档位
type PricingMode struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// PriceBook 价格表
type PriceBook struct {
	Jersey            decimal.Decimal
	JerseySublimated  decimal.Decimal
	JerseyEmbroidered decimal.Decimal
	JerseyComplex     decimal.Decimal
	Shorts            decimal.Decimal
	Socks             decimal.Decimal
	Caps              decimal.Decimal
}

// DefaultPriceBook 默认价格表
func DefaultPriceBook() PriceBook {
	return PriceBook{
		Jersey:            decimal.RequireFromString("21.90"),
		JerseySublimated:  decimal.NewFromInt(35),
		JerseyEmbroidered: decimal.NewFromInt(72),
		JerseyComplex:     decimal.NewFromInt(82),
		Shorts:            decimal.RequireFromString("7.70"),
		Socks:             decimal.Zero,
		Caps:              decimal.Zero,
	}
}

// JerseyModes 返回运动项目的球衣定价档位
func (b PriceBook) JerseyModes(sport Sport) []PricingMode {
	switch sport {
	case SportFootball:
		return []PricingMode{
			{Name: "Sublimated", Price: b.JerseySublimated},
			{Name: "Embroidered", Price: b.JerseyEmbroidered},
			{Name: "Complex", Price: b.JerseyComplex},
		}
	case SportHockey:
		return []PricingMode{{Name: "Standard", Price: b.Jersey}}
	}
	return nil
}

// JerseyPrice 按档位解析球衣单价，未知档位取第一档
func (b PriceBook) JerseyPrice(sport Sport, mode string) (decimal.Decimal, string) {
	modes := b.JerseyModes(sport)
	if len(modes) == 0 {
		return b.Jersey, ""
	}
	for _, item := range modes {
		if strings.EqualFold(item.Name, strings.TrimSpace(mode)) {
			return item.Price, item.Name
		}
	}
	return modes[0].Price, modes[0].Name
}

// LinePrice 返回非球衣产品线的默认单价
func (b PriceBook) LinePrice(product Product) decimal.Decimal {
	switch product {
	case ProductShorts:
		return b.Shorts
	case ProductSocks:
		return b.Socks
	case ProductCaps:
		return b.Caps
	}
	return b.Jersey
}
