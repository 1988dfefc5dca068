package service

import (
	"context"
	"fmt"

	"github.com/ninetytwo-orders/internal/cache"
	"github.com/ninetytwo-orders/internal/logger"
	"github.com/ninetytwo-orders/internal/sheet"

	"gorm.io/gorm"
)

// ResolveOrderID 解析 slug 对应的订单 ID，优先读取缓存
func (s *OrderService) ResolveOrderID(slug string) (uint, error) {
	ctx := context.Background()
	if ref, ok, err := cache.GetOrderRef(ctx, slug); err != nil {
		logger.Warnw("order_ref_cache_get_failed", "slug", slug, "error", err)
	} else if ok {
		return ref.ID, nil
	}
	id, err := s.orderRepo.ResolveIDBySlug(slug)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, ErrOrderNotFound
	}
	if err := cache.SetOrderRef(ctx, slug, id, s.defaults.RefTTL); err != nil {
		logger.Warnw("order_ref_cache_set_failed", "slug", slug, "error", err)
	}
	return id, nil
}

// AddRowBySlug 为指定订单追加空行
func (s *OrderService) AddRowBySlug(slug string) (uint, error) {
	orderID, err := s.ResolveOrderID(slug)
	if err != nil {
		return 0, err
	}
	return s.AddRow(orderID)
}

// SaveRow 按订单列定义校验后整行写入；读取旧行与写入在同一事务内
func (s *OrderService) SaveRow(slug string, rowID uint, data map[string]interface{}) error {
	orderID, err := s.ResolveOrderID(slug)
	if err != nil {
		return err
	}
	return s.orderRepo.Transaction(func(tx *gorm.DB) error {
		txSvc := s.withTx(tx)
		order, err := txSvc.orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		row, err := txSvc.rowRepo.GetByID(orderID, rowID)
		if err != nil {
			return err
		}
		if row == nil {
			return ErrRowNotFound
		}
		normalized, err := sheet.NormalizeRow([]sheet.Column(order.Columns), data, map[string]any(row.Data))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRowDataInvalid, err)
		}
		// 行已在事务内确认存在，影响行数为 0 只可能是数据未变化
		_, err = txSvc.UpdateRow(orderID, rowID, normalized)
		return err
	})
}

func (s *OrderService) withTx(tx *gorm.DB) *OrderService {
	return &OrderService{
		orderRepo: s.orderRepo.WithTx(tx),
		rowRepo:   s.rowRepo.WithTx(tx),
		defaults:  s.defaults,
	}
}

// RemoveRow 删除指定订单的行
func (s *OrderService) RemoveRow(slug string, rowID uint) error {
	orderID, err := s.ResolveOrderID(slug)
	if err != nil {
		return err
	}
	ok, err := s.DeleteRow(orderID, rowID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRowNotFound
	}
	return nil
}

// RemoveOrder 删除指定 slug 的订单
func (s *OrderService) RemoveOrder(slug string) error {
	orderID, err := s.ResolveOrderID(slug)
	if err != nil {
		return err
	}
	ok, err := s.DeleteOrder(orderID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOrderNotFound
	}
	return nil
}
