// Package domain 包含购物车/订单引擎的领域模型。
// 购物车即状态为 OPEN 的订单，结算完成后单向转为 COMPLETE。
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogdomain "github.com/wyfcoding/zenstore/internal/catalog/domain"
)

var (
	// ErrInsufficientStock 请求数量超过现有库存
	ErrInsufficientStock = errors.New("not enough stock")
	// ErrNoActiveCart 用户没有未完成订单
	ErrNoActiveCart = errors.New("no active cart")
	// ErrEmptyCart 购物车为空，不能结算
	ErrEmptyCart = errors.New("cart is empty")
)

// OrderStatus 订单状态
type OrderStatus string

const (
	// OrderStatusOpen 进行中的购物车
	OrderStatusOpen OrderStatus = "OPEN"
	// OrderStatusComplete 已结算，不可再变更
	OrderStatusComplete OrderStatus = "COMPLETE"
)

// Order 订单实体。每个用户同一时刻至多一个 OPEN 订单：
// OpenUserID 在订单打开期间等于 UserID、结算时清空，
// 其唯一索引使并发重复建购物车表现为唯一键冲突。
type Order struct {
	gorm.Model
	UserID        *uint       `gorm:"column:user_id;index"`
	OpenUserID    *uint       `gorm:"column:open_user_id;uniqueIndex"`
	Status        OrderStatus `gorm:"column:status;type:varchar(16);index;not null"`
	TransactionID string      `gorm:"column:transaction_id;type:varchar(100)"`
	Items         []OrderItem `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string { return "orders" }

// NewOpenOrder 创建空购物车
func NewOpenOrder(userID uint) *Order {
	uid := userID
	openUID := userID
	return &Order{
		UserID:     &uid,
		OpenUserID: &openUID,
		Status:     OrderStatusOpen,
	}
}

// IsComplete 是否已结算
func (o *Order) IsComplete() bool {
	return o.Status == OrderStatusComplete
}

// ItemCount 商品件数（数量之和）
func (o *Order) ItemCount() int {
	var count int
	for i := range o.Items {
		count += o.Items[i].Quantity
	}
	return count
}

// Total 订单总额
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].LineTotal())
	}
	return total
}

// Complete 将订单置为 COMPLETE 并记录交易号，释放唯一索引占位
func (o *Order) Complete(transactionID string) {
	o.Status = OrderStatusComplete
	o.TransactionID = transactionID
	o.OpenUserID = nil
}

// OrderItem 订单行。数量恒大于 0，减到 0 时删除整行。
type OrderItem struct {
	gorm.Model
	OrderID   uint                   `gorm:"column:order_id;index;not null"`
	ProductID *uint                  `gorm:"column:product_id;index"`
	Product   *catalogdomain.Product `gorm:"foreignKey:ProductID"`
	Quantity  int                    `gorm:"column:quantity;not null"`
}

func (OrderItem) TableName() string { return "order_items" }

// LineTotal 行小计 = 单价 × 数量。商品被删除后按零计。
func (i *OrderItem) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
