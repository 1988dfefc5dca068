package models

import (
	"time"
)

// Order 订单表
type Order struct {
	ID                uint        `gorm:"primarykey" json:"id"`                                                         // 主键
	Slug              string      `gorm:"uniqueIndex;size:191;not null" json:"slug"`                                    // 唯一标识
	Title             string      `gorm:"not null" json:"title"`                                                        // 标题
	Columns           ColumnList  `gorm:"column:columns_json;type:text;not null" json:"columns"`                        // 列定义
	Config            LenientJSON `gorm:"column:config_json;type:text;not null" json:"config"`                          // 订单配置（运动项目、语言、色板等）
	UnitPcsLabel      string      `gorm:"column:unit_pcs_label;size:32;not null;default:pcs" json:"unit_pcs_label"`     // 数量单位
	UnitCurrencyLabel string      `gorm:"column:unit_currency_label;size:32;not null;default:EUR" json:"unit_currency"` // 货币单位
	CreatedAt         time.Time   `gorm:"index" json:"created_at"`                                                      // 创建时间

	Rows []OrderRow `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"` // 行
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderRow 订单行表
type OrderRow struct {
	ID        uint      `gorm:"primarykey" json:"id"`                            // 主键
	OrderID   uint      `gorm:"index;not null" json:"order_id"`                  // 所属订单
	Data      JSON      `gorm:"column:data_json;type:text;not null" json:"data"` // 行数据
	CreatedAt time.Time `json:"created_at"`                                      // 创建时间
	UpdatedAt time.Time `json:"updatedAt"`                                       // 更新时间
}

// TableName 指定表名
func (OrderRow) TableName() string {
	return "order_rows"
}
