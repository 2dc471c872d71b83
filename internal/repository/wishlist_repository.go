package repository

import (
	"context"

	"freshmart/internal/domain/model"
)

type WishlistRepository interface {
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Wishlist, error)
	FindByUserID(ctx context.Context, userID int64) (model.Wishlist, error)
	//明細を全削除（リスト行は残す）
	Clear(ctx context.Context, wishlistID int64) error
}

type WishlistItemRepository interface {
	ListByWishlistID(ctx context.Context, wishlistID int64) ([]model.WishlistItem, error)
	FindByWishlistAndProduct(ctx context.Context, wishlistID int64, productID int64) (model.WishlistItem, error)
	Create(ctx context.Context, item *model.WishlistItem) error
	DeleteByID(ctx context.Context, itemID int64) error
	CountByWishlistID(ctx context.Context, wishlistID int64) (int64, error)
	IsOwnedByUser(ctx context.Context, itemID int64, userID int64) (bool, error)
}
