package i18n

import "strings"

const (
	// LangENG 英文（默认）
	LangENG = "ENG"
	// LangRUS 俄文
	LangRUS = "RUS"
)

var labels = map[string]map[string]string{
	LangENG: {
		"name":         "SURNAME",
		"number":       "PLAYER NUMBER",
		"height_cm":    "HEIGHT",
		"weight_kg":    "WEIGHT",
		"size":         "JERSEY SIZE",
		"jersey_color": "COLOR",
		"jersey_type":  "SLEEVE",
		"qty_jersey":   "JERSEY QUANTITY",
		"price_jersey": "JERSEY PRICE",
		"size_shorts":  "SHORTS SIZE",
		"qty_shorts":   "SHORTS QUANTITY",
		"price_shorts": "SHORTS PRICE",
		"size_socks":   "SOCKS SIZE",
		"qty_socks":    "SOCKS QUANTITY",
		"price_socks":  "SOCKS PRICE",
		"cap":          "CAP",
		"cap_style":    "CAP STYLE",
		"cap_logo":     "CAP LOGO",
		"cap_visor":    "CAP VISOR",
		"cap_fastener": "CAP FASTENER",
		"cap_size":     "CAP SIZE",
		"qty_caps":     "CAPS QUANTITY",
		"price_caps":   "CAPS PRICE",
		"total_price":  "TOTAL PRICE",

		"product.jersey": "Jerseys",
		"product.shorts": "Shorts",
		"product.socks":  "Socks",
		"product.caps":   "Caps",
	},
	LangRUS: {
		"name":         "ФАМИЛИЯ",
		"number":       "НОМЕР ИГРОКА",
		"height_cm":    "РОСТ",
		"weight_kg":    "ВЕС",
		"size":         "РАЗМЕР ДЖЕРСИ",
		"jersey_color": "ЦВЕТ",
		"jersey_type":  "РУКАВ",
		"qty_jersey":   "КОЛ-ВО ДЖЕРСИ",
		"price_jersey": "ЦЕНА ДЖЕРСИ",
		"size_shorts":  "РАЗМЕР ШОРТ",
		"qty_shorts":   "КОЛ-ВО ШОРТ",
		"price_shorts": "ЦЕНА ШОРТ",
		"size_socks":   "РАЗМЕР ГЕТР",
		"qty_socks":    "КОЛ-ВО ГЕТР",
		"price_socks":  "ЦЕНА ГЕТР",
		"cap":          "КЕПКА",
		"cap_style":    "ФАСОН КЕПКИ",
		"cap_logo":     "ЛОГОТИП",
		"cap_visor":    "КОЗЫРЁК",
		"cap_fastener": "ЗАСТЁЖКА",
		"cap_size":     "РАЗМЕР КЕПКИ",
		"qty_caps":     "КОЛ-ВО КЕПОК",
		"price_caps":   "ЦЕНА КЕПОК",
		"total_price":  "ИТОГО",

		"product.jersey": "Джерси",
		"product.shorts": "Шорты",
		"product.socks":  "Гетры",
		"product.caps":   "Кепки",
	},
}

// NormalizeLanguage 规范化语言标签，未知语言回退到 ENG
func NormalizeLanguage(lang string) string {
	normalized := strings.ToUpper(strings.TrimSpace(lang))
	if _, ok := labels[normalized]; ok {
		return normalized
	}
	return LangENG
}

// Label 返回列标签
func Label(lang, key string) string {
	if text, ok := labels[NormalizeLanguage(lang)][key]; ok {
		return text
	}
	if text, ok := labels[LangENG][key]; ok {
		return text
	}
	return strings.ToUpper(key)
}

// Languages 支持的语言列表
func Languages() []string {
	return []string{LangENG, LangRUS}
}
