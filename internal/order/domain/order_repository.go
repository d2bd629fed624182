package domain

import "context"

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// GetOpenByUser 返回用户的 OPEN 订单（含订单行与商品），无则返回 gorm.ErrRecordNotFound
	GetOpenByUser(ctx context.Context, userID uint) (*Order, error)
	// Create 持久化新订单；重复的 open_user_id 返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, order *Order) error
	// GetItem 返回订单中指定商品的订单行
	GetItem(ctx context.Context, orderID, productID uint) (*OrderItem, error)
	SaveItem(ctx context.Context, item *OrderItem) error
	// DeleteItem 物理删除订单行
	DeleteItem(ctx context.Context, item *OrderItem) error
	// Finalize 在单个事务内完成订单：置 COMPLETE、写交易号、按行条件扣减库存。
	// 订单已非 OPEN 返回 ErrNoActiveCart；任一商品库存不足返回 ErrInsufficientStock 并整体回滚。
	Finalize(ctx context.Context, order *Order, transactionID string) error
	// ListCompletedByUser 返回用户的历史订单，最新在前
	ListCompletedByUser(ctx context.Context, userID uint) ([]Order, error)
	// HasCompletedWithProduct 用户是否有包含该商品的已完成订单
	HasCompletedWithProduct(ctx context.Context, userID, productID uint) (bool, error)
}
