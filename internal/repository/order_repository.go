package repository

import (
	"errors"
	"strings"

	"github.com/ninetytwo-orders/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, rowsCount int) error
	GetBySlug(slug string) (*models.Order, error)
	GetByID(id uint) (*models.Order, error)
	ResolveIDBySlug(slug string) (uint, error)
	List() ([]models.Order, error)
	UpdateSettings(id uint, updates map[string]interface{}) (bool, error)
	Delete(id uint) (bool, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建订单并预置空行，订单与行在同一事务内写入
func (r *GormOrderRepository) Create(order *models.Order, rowsCount int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Rows").Create(order).Error; err != nil {
			return err
		}
		if rowsCount <= 0 {
			return nil
		}
		rows := make([]models.OrderRow, rowsCount)
		for i := range rows {
			rows[i] = models.OrderRow{OrderID: order.ID, Data: models.JSON{}}
		}
		return tx.CreateInBatches(&rows, 100).Error
	})
}

// GetBySlug 根据 slug 获取订单（含按 id 升序的行）
func (r *GormOrderRepository) GetBySlug(slug string) (*models.Order, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	var order models.Order
	query := r.db.Preload("Rows", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
	if err := query.Where("slug = ?", slug).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByID 根据 ID 获取订单（不含行）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ResolveIDBySlug 仅解析订单 ID，未找到返回 0
func (r *GormOrderRepository) ResolveIDBySlug(slug string) (uint, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return 0, nil
	}
	var ids []uint
	if err := r.db.Model(&models.Order{}).Where("slug = ?", slug).Limit(1).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}

// List 订单列表，最新创建的在前
func (r *GormOrderRepository) List() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Model(&models.Order{}).
		Select("id", "slug", "title", "created_at").
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateSettings 更新订单设置字段，返回是否命中
func (r *GormOrderRepository) UpdateSettings(id uint, updates map[string]interface{}) (bool, error) {
	if len(updates) == 0 {
		var count int64
		if err := r.db.Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	}
	result := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete 删除订单及其全部行
func (r *GormOrderRepository) Delete(id uint) (bool, error) {
	var deleted bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderRow{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Order{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
