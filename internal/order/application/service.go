package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogdomain "github.com/wyfcoding/zenstore/internal/catalog/domain"
	"github.com/wyfcoding/zenstore/internal/order/domain"
	userdomain "github.com/wyfcoding/zenstore/internal/user/domain"
	"github.com/wyfcoding/zenstore/pkg/logger"
)

// ProductProvider 提供商品读取能力
type ProductProvider interface {
	GetProduct(ctx context.Context, id uint) (*catalogdomain.Product, error)
}

// UserProvider 提供用户读取能力，结算通知需要收件人信息
type UserProvider interface {
	Get(ctx context.Context, id uint) (*userdomain.User, error)
}

// Notifier 订单确认通知，尽力而为
type Notifier interface {
	OrderConfirmation(ctx context.Context, userID uint, email, firstName string, orderID uint, total decimal.Decimal, transactionID string) error
}

// CartTotals 购物车汇总
type CartTotals struct {
	ItemCount int
	Total     decimal.Decimal
}

// OrderService 购物车/订单应用服务
type OrderService struct {
	repo     domain.OrderRepository
	products ProductProvider
	users    UserProvider
	notifier Notifier
	events   domain.EventPublisher
}

func NewOrderService(repo domain.OrderRepository, products ProductProvider, users UserProvider, notifier Notifier, events domain.EventPublisher) *OrderService {
	return &OrderService{
		repo:     repo,
		products: products,
		users:    users,
		notifier: notifier,
		events:   events,
	}
}

// GetOrCreateActiveCart 返回用户的 OPEN 订单，没有则新建空单。
// 并发重复创建会命中 open_user_id 唯一索引，冲突后重查即得已有购物车。
func (s *OrderService) GetOrCreateActiveCart(ctx context.Context, userID uint) (*domain.Order, error) {
	cart, err := s.repo.GetOpenByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = domain.NewOpenOrder(userID)
	if err := s.repo.Create(ctx, cart); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.repo.GetOpenByUser(ctx, userID)
		}
		return nil, err
	}
	return cart, nil
}

// AddItem 向购物车加入 quantity 件商品。库存只校验不预留，
// 超过现有库存返回 ErrInsufficientStock 且不产生任何变更。
func (s *OrderService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*domain.Order, error) {
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.GetOrCreateActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, cart.ID, productID)
	switch {
	case err == nil:
		if item.Quantity+quantity > product.Stock {
			return nil, domain.ErrInsufficientStock
		}
		item.Quantity += quantity
		if err := s.repo.SaveItem(ctx, item); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if quantity > product.Stock {
			return nil, domain.ErrInsufficientStock
		}
		pid := productID
		item = &domain.OrderItem{OrderID: cart.ID, ProductID: &pid, Quantity: quantity}
		if err := s.repo.SaveItem(ctx, item); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.repo.GetOpenByUser(ctx, userID)
}

// RemoveOneUnit 将购物车中某商品数量减一，减到 0 删除整行。
// 购物车或订单行不存在时按已空处理，不报错。
func (s *OrderService) RemoveOneUnit(ctx context.Context, userID, productID uint) (*domain.Order, error) {
	cart, err := s.repo.GetOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, cart.ID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cart, nil
		}
		return nil, err
	}

	item.Quantity--
	if item.Quantity <= 0 {
		if err := s.repo.DeleteItem(ctx, item); err != nil {
			return nil, err
		}
	} else {
		if err := s.repo.SaveItem(ctx, item); err != nil {
			return nil, err
		}
	}

	return s.repo.GetOpenByUser(ctx, userID)
}

// Totals 返回购物车件数与总额。userID 为 0（匿名）或无购物车时为 (0, 0)，
// 匿名访客没有持久化的购物车。
func (s *OrderService) Totals(ctx context.Context, userID uint) (CartTotals, error) {
	zero := CartTotals{ItemCount: 0, Total: decimal.Zero}
	if userID == 0 {
		return zero, nil
	}
	cart, err := s.repo.GetOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, nil
		}
		return zero, err
	}
	return CartTotals{ItemCount: cart.ItemCount(), Total: cart.Total()}, nil
}

// ActiveCart 返回用户的 OPEN 订单，匿名或无购物车返回 nil
func (s *OrderService) ActiveCart(ctx context.Context, userID uint) (*domain.Order, error) {
	if userID == 0 {
		return nil, nil
	}
	cart, err := s.repo.GetOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cart, nil
}

// Finalize 结算购物车：置 COMPLETE、生成交易号、扣减库存，
// 随后异步发送确认邮件并发布订单完成事件，两者失败都不影响结算结果。
func (s *OrderService) Finalize(ctx context.Context, userID uint) (string, error) {
	cart, err := s.repo.GetOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrNoActiveCart
		}
		return "", err
	}
	if len(cart.Items) == 0 {
		return "", domain.ErrEmptyCart
	}

	transactionID := newTransactionID()
	if err := s.repo.Finalize(ctx, cart, transactionID); err != nil {
		return "", err
	}

	total := cart.Total()
	itemCount := cart.ItemCount()

	s.notifyCompleted(ctx, userID, cart.ID, total, transactionID)

	if s.events != nil {
		event := domain.OrderCompletedEvent{
			OrderID:       cart.ID,
			UserID:        userID,
			TransactionID: transactionID,
			ItemCount:     itemCount,
			Total:         total,
			CompletedAt:   time.Now(),
		}
		if err := s.events.PublishOrderCompleted(ctx, event); err != nil {
			logger.Warn(ctx, "order completed event publish failed",
				"order_id", cart.ID, "error", err)
		}
	}

	return transactionID, nil
}

// notifyCompleted 发送订单确认邮件，后台执行，错误仅记录
func (s *OrderService) notifyCompleted(ctx context.Context, userID, orderID uint, total decimal.Decimal, transactionID string) {
	if s.notifier == nil {
		return
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "order confirmation skipped, user lookup failed",
			"order_id", orderID, "user_id", userID, "error", err)
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(context.Background(), "order confirmation panicked",
					"order_id", orderID, "panic", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.OrderConfirmation(ctx, userID, user.Email, user.FirstName, orderID, total, transactionID); err != nil {
			logger.Warn(ctx, "order confirmation email failed",
				"order_id", orderID, "email", user.Email, "error", err)
		}
	}()
}

// CompletedOrders 返回用户历史订单，最新在前
func (s *OrderService) CompletedOrders(ctx context.Context, userID uint) ([]domain.Order, error) {
	return s.repo.ListCompletedByUser(ctx, userID)
}

// HasPurchased 用户是否购买过该商品，仅用于详情页展示
func (s *OrderService) HasPurchased(ctx context.Context, userID, productID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.repo.HasCompletedWithProduct(ctx, userID, productID)
}

// newTransactionID 生成全局唯一交易号，格式本身不构成契约
func newTransactionID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixMilli(), suffix)
}
