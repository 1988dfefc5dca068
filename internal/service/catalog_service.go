package service

import (
	"github.com/ninetytwo-orders/internal/i18n"
	"github.com/ninetytwo-orders/internal/sheet"
	"github.com/ninetytwo-orders/internal/sizing"
)

// CatalogParam 可选参数
type CatalogParam struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	SizeBearing bool     `json:"sizeBearing"`
	Options     []string `json:"options"`
}

// CatalogProduct 可选产品
type CatalogProduct struct {
	Key          string         `json:"key"`
	Label        string         `json:"label"`
	BaseFields   []string       `json:"baseFields"`
	Params       []CatalogParam `json:"params"`
	DefaultPrice string         `json:"defaultPrice"`
}

// Catalog 建单表单配置
type Catalog struct {
	Sport           string              `json:"sport"`
	Language        string              `json:"language"`
	Sports          []sheet.Sport       `json:"sports"`
	Languages       []string            `json:"languages"`
	Products        []CatalogProduct    `json:"products"`
	Colors          []string            `json:"colors"`
	JerseyModes     []sheet.PricingMode `json:"jerseyModes"`
	SizeChart       string              `json:"sizeChart"`
	DefaultRows     int                 `json:"defaultRows"`
	UnitPcsLabel    string              `json:"unitPcsLabel"`
	UnitCurrency    string              `json:"unitCurrencyLabel"`
	HeightOnlySport string              `json:"heightOnlySport"`
}

// Catalog 返回运动项目下的产品、参数、选项与定价档位
func (s *OrderService) Catalog(sportRaw, lang string) Catalog {
	sport := sheet.ParseSport(sportRaw)
	lang = i18n.NormalizeLanguage(lang)
	book := s.defaults.Prices
	pricing := sheet.Selection{Sport: sport, Prices: &book}.ResolvePricing()

	catalog := Catalog{
		Sport:           string(sport),
		Language:        lang,
		Sports:          sheet.Sports(),
		Languages:       i18n.Languages(),
		Products:        make([]CatalogProduct, 0, 4),
		Colors:          sheet.ParamOptionsForSport(sport, "jersey_color"),
		JerseyModes:     book.JerseyModes(sport),
		SizeChart:       sizing.ChartFor(string(sport)).Name,
		DefaultRows:     s.defaults.Rows,
		UnitPcsLabel:    s.defaults.UnitPcsLabel,
		UnitCurrency:    s.defaults.UnitCurrencyLabel,
		HeightOnlySport: sizing.HeightOnlySport,
	}
	for _, product := range sheet.ProductsForSport(sport) {
		spec, ok := sheet.ProductSpecFor(product)
		if !ok {
			continue
		}
		item := CatalogProduct{
			Key:          string(product),
			Label:        i18n.Label(lang, "product."+string(product)),
			BaseFields:   append([]string{}, spec.BaseFields...),
			Params:       make([]CatalogParam, 0, len(spec.Params)),
			DefaultPrice: sheet.FormatAmount(pricing.PriceFor(product)),
		}
		for _, param := range spec.Params {
			item.Params = append(item.Params, CatalogParam{
				Key:         param.Key,
				Label:       i18n.Label(lang, param.Key),
				SizeBearing: param.SizeBearing,
				Options:     sheet.ParamOptionsForSport(sport, param.Key),
			})
		}
		catalog.Products = append(catalog.Products, item)
	}
	return catalog
}
