package usecase

import (
	"context"
	"net/http"
	"time"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"

	"github.com/shopspring/decimal"
)

// WishlistUsecase は /api/wishlist の業務ロジック。
type WishlistUsecase struct {
	tx repo.TransactionManager
}

func NewWishlistUsecase(tx repo.TransactionManager) *WishlistUsecase {
	return &WishlistUsecase{tx: tx}
}

// 明細に添える現在の商品情報（表示用）
type WishlistProductInfo struct {
	ID                 int64               `json:"id"`
	Name               string              `json:"name"`
	Price              decimal.Decimal     `json:"price"`
	OriginalPrice      decimal.NullDecimal `json:"original_price,omitempty"`
	Image              string              `json:"image,omitempty"`
	Weight             string              `json:"weight,omitempty"`
	IsInStock          bool                `json:"is_in_stock"`
	DiscountPercentage int64               `json:"discount_percentage"`
}

type WishlistItemResponse struct {
	ID           int64                `json:"id"`
	ProductID    int64                `json:"product_id"`
	ProductName  string               `json:"product_name,omitempty"`
	ProductPrice decimal.NullDecimal  `json:"product_price,omitempty"`
	ProductImage string               `json:"product_image,omitempty"`
	Product      *WishlistProductInfo `json:"product,omitempty"`
	AddedAt      time.Time            `json:"added_at"`
}

type WishlistResponse struct {
	ID         int64                  `json:"id"`
	Items      []WishlistItemResponse `json:"items"`
	TotalItems int64                  `json:"total_items"`
}

type ToggleWishlistOutput struct {
	ProductID    int64  `json:"product_id"`
	IsInWishlist bool   `json:"is_in_wishlist"`
	Message      string `json:"message"`
}

type CheckWishlistOutput struct {
	ProductID    int64 `json:"product_id"`
	IsInWishlist bool  `json:"is_in_wishlist"`
}

// GetWishlist はウィッシュリスト取得（無ければ作って空を返す）。
func (u *WishlistUsecase) GetWishlist(ctx context.Context, userID int64) (WishlistResponse, error) {
	if userID <= 0 {
		return WishlistResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out WishlistResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		wl, err := r.Wishlists().GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.WishlistItems().ListByWishlistID(ctx, wl.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		respItems := make([]WishlistItemResponse, 0, len(items))
		for _, it := range items {
			var info *WishlistProductInfo
			if p, err := r.Products().FindByID(ctx, it.ProductID); err == nil {
				info = &WishlistProductInfo{
					ID:                 p.ID,
					Name:               p.Name,
					Price:              p.Price,
					OriginalPrice:      p.OriginalPrice,
					Image:              p.Image,
					Weight:             p.Weight,
					IsInStock:          p.IsInStock,
					DiscountPercentage: p.DiscountPercentage,
				}
			} else if err != repo.ErrNotFound {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			respItems = append(respItems, WishlistItemResponse{
				ID:           it.ID,
				ProductID:    it.ProductID,
				ProductName:  it.ProductName,
				ProductPrice: it.ProductPrice,
				ProductImage: it.ProductImage,
				Product:      info,
				AddedAt:      it.AddedAt,
			})
		}

		out = WishlistResponse{
			ID:         wl.ID,
			Items:      respItems,
			TotalItems: int64(len(respItems)),
		}
		return nil
	})

	if err != nil {
		return WishlistResponse{}, err
	}
	return out, nil
}

// Toggle は1回の呼び出しで追加/削除を反転させる。
// あり→削除してfalse、なし→追加時点の表示情報を写してtrue。
func (u *WishlistUsecase) Toggle(ctx context.Context, userID int64, productID int64) (ToggleWishlistOutput, error) {
	if userID <= 0 {
		return ToggleWishlistOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return ToggleWishlistOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	var out ToggleWishlistOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		wl, err := r.Wishlists().GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		existing, err := r.WishlistItems().FindByWishlistAndProduct(ctx, wl.ID, productID)
		if err == nil {
			if err := r.WishlistItems().DeleteByID(ctx, existing.ID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out = ToggleWishlistOutput{
				ProductID:    productID,
				IsInWishlist: false,
				Message:      p.Name + " removed from wishlist",
			}
			return nil
		}
		if err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		item := model.WishlistItem{
			WishlistID:   wl.ID,
			ProductID:    p.ID,
			ProductName:  p.Name,
			ProductPrice: decimal.NullDecimal{Decimal: p.Price, Valid: true},
			ProductImage: p.Image,
		}
		if err := r.WishlistItems().Create(ctx, &item); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = ToggleWishlistOutput{
			ProductID:    productID,
			IsInWishlist: true,
			Message:      p.Name + " added to wishlist",
		}
		return nil
	})

	if err != nil {
		return ToggleWishlistOutput{}, err
	}
	return out, nil
}

// Contains は純粋な存在チェック。リスト自体が無くてもエラーにしない。
func (u *WishlistUsecase) Contains(ctx context.Context, userID int64, productID int64) (CheckWishlistOutput, error) {
	if userID <= 0 {
		return CheckWishlistOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	out := CheckWishlistOutput{ProductID: productID, IsInWishlist: false}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		wl, err := r.Wishlists().FindByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return nil
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		_, err = r.WishlistItems().FindByWishlistAndProduct(ctx, wl.ID, productID)
		if err == nil {
			out.IsInWishlist = true
			return nil
		}
		if err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return CheckWishlistOutput{}, err
	}
	return out, nil
}

// 明細削除（所有チェック付き）
func (u *WishlistUsecase) RemoveItem(ctx context.Context, userID int64, itemID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		owned, err := r.WishlistItems().IsOwnedByUser(ctx, itemID, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !owned {
			return NewHTTPError(http.StatusNotFound, "item not found")
		}

		if err := r.WishlistItems().DeleteByID(ctx, itemID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "item not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 全明細削除。リストが無くても黙って成功する。
func (u *WishlistUsecase) Clear(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		wl, err := r.Wishlists().FindByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return nil
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Wishlists().Clear(ctx, wl.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}
