package mysql

import (
	"context"

	"gorm.io/gorm"

	catalogdomain "github.com/wyfcoding/zenstore/internal/catalog/domain"
	"github.com/wyfcoding/zenstore/internal/order/domain"
)

type orderRepository struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetOpenByUser(ctx context.Context, userID uint) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Preload("Items.Product").
		Where("open_user_id = ? AND status = ?", userID, domain.OrderStatusOpen).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetItem(ctx context.Context, orderID, productID uint) (*domain.OrderItem, error) {
	var item domain.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *orderRepository) SaveItem(ctx context.Context, item *domain.OrderItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *orderRepository) DeleteItem(ctx context.Context, item *domain.OrderItem) error {
	// 数量归零的订单行必须彻底消失，不留软删除残影
	return r.db.WithContext(ctx).Unscoped().Delete(item).Error
}

// Finalize 在单个事务内完成 OPEN -> COMPLETE 转换并扣减库存。
// 状态翻转与扣减都是条件更新：第二次结算影响 0 行即报 ErrNoActiveCart，
// 库存不足影响 0 行即报 ErrInsufficientStock，事务整体回滚。
func (r *orderRepository) Finalize(ctx context.Context, order *domain.Order, transactionID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Order{}).
			Where("id = ? AND status = ?", order.ID, domain.OrderStatusOpen).
			Updates(map[string]interface{}{
				"status":         domain.OrderStatusComplete,
				"transaction_id": transactionID,
				"open_user_id":   nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNoActiveCart
		}

		for i := range order.Items {
			item := &order.Items[i]
			if item.ProductID == nil {
				continue
			}
			res := tx.Model(&catalogdomain.Product{}).
				Where("id = ? AND stock >= ?", *item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return domain.ErrInsufficientStock
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	order.Complete(transactionID)
	return nil
}

func (r *orderRepository) ListCompletedByUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("user_id = ? AND status = ?", userID, domain.OrderStatusComplete).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) HasCompletedWithProduct(ctx context.Context, userID, productID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id AND order_items.deleted_at IS NULL").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
			userID, domain.OrderStatusComplete, productID).
		Count(&count).Error
	return count > 0, err
}
