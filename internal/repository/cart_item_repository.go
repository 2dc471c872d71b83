package repository

import (
	"context"

	"freshmart/internal/domain/model"

	"github.com/shopspring/decimal"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 同一商品は数量加算。価格スナップショットは最初の追加時のまま。
	UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64, price decimal.Decimal, originalPrice decimal.NullDecimal) error
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error)
}
