package repository

import (
	"errors"
	"time"

	"github.com/ninetytwo-orders/internal/models"

	"gorm.io/gorm"
)

// RowRepository 订单行数据访问接口
type RowRepository interface {
	Create(orderID uint) (*models.OrderRow, error)
	GetByID(orderID, rowID uint) (*models.OrderRow, error)
	UpdateData(orderID, rowID uint, data models.JSON) (bool, error)
	Delete(orderID, rowID uint) (bool, error)
	CountByOrder(orderID uint) (int64, error)
	WithTx(tx *gorm.DB) RowRepository
}

// GormRowRepository GORM 实现
type GormRowRepository struct {
	db *gorm.DB
}

// NewRowRepository 创建订单行仓库
func NewRowRepository(db *gorm.DB) *GormRowRepository {
	return &GormRowRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRowRepository) WithTx(tx *gorm.DB) RowRepository {
	if tx == nil {
		return r
	}
	return &GormRowRepository{db: tx}
}

// Create 追加空行
func (r *GormRowRepository) Create(orderID uint) (*models.OrderRow, error) {
	row := &models.OrderRow{OrderID: orderID, Data: models.JSON{}}
	if err := r.db.Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// GetByID 获取属于指定订单的行
func (r *GormRowRepository) GetByID(orderID, rowID uint) (*models.OrderRow, error) {
	var row models.OrderRow
	if err := r.db.Where("id = ? AND order_id = ?", rowID, orderID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// UpdateData 整行覆盖数据，行不属于该订单时返回 false
func (r *GormRowRepository) UpdateData(orderID, rowID uint, data models.JSON) (bool, error) {
	if data == nil {
		data = models.JSON{}
	}
	result := r.db.Model(&models.OrderRow{}).
		Where("id = ? AND order_id = ?", rowID, orderID).
		Updates(map[string]interface{}{
			"data_json":  data,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete 删除属于指定订单的行
func (r *GormRowRepository) Delete(orderID, rowID uint) (bool, error) {
	result := r.db.Where("id = ? AND order_id = ?", rowID, orderID).Delete(&models.OrderRow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountByOrder 统计订单行数
func (r *GormRowRepository) CountByOrder(orderID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.OrderRow{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
