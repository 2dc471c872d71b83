package repository

import (
	"context"
	"time"

	"freshmart/internal/domain/model"

	"github.com/shopspring/decimal"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	//新しい順
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	//order_numberの一意制約に当たったらErrDuplicate
	Create(ctx context.Context, order *model.Order) error
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, deliveredAt *time.Time) error
	CountByUserID(ctx context.Context, userID int64) (int64, error)
	//ユーザーの全注文のdiscount合計（statsで使う）
	SumDiscountByUserID(ctx context.Context, userID int64) (decimal.Decimal, error)
}
