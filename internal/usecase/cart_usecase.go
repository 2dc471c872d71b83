package usecase

import (
	"context"
	"net/http"
	"time"

	repo "freshmart/internal/repository"

	"github.com/shopspring/decimal"
)

// 送料: 小計がしきい値以上なら無料、未満なら一律40。
var (
	freeDeliveryThreshold = decimal.NewFromInt(500)
	flatDeliveryFee       = decimal.NewFromInt(40)
)

// 小計に対する送料
func deliveryFeeFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(freeDeliveryThreshold) {
		return decimal.Zero
	}
	return flatDeliveryFee
}

// CartUsecase は /api/cart の業務ロジック。
// 各操作は1トランザクションで実行し、途中状態は外から見えない。
type CartUsecase struct {
	tx repo.TransactionManager
}

func NewCartUsecase(tx repo.TransactionManager) *CartUsecase {
	return &CartUsecase{tx: tx}
}

// 明細に添える現在の商品情報（表示用）。スナップショットとは別物。
type CartProductInfo struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	Weight    string `json:"weight,omitempty"`
	IsInStock bool   `json:"is_in_stock"`
}

type CartItemResponse struct {
	ID            int64               `json:"id"`
	ProductID     int64               `json:"product_id"`
	Quantity      int64               `json:"quantity"`
	Price         decimal.Decimal     `json:"price"`
	OriginalPrice decimal.NullDecimal `json:"original_price,omitempty"`
	Product       *CartProductInfo    `json:"product,omitempty"`
	AddedAt       time.Time           `json:"added_at"`
}

type CartResponse struct {
	ID           int64              `json:"id"`
	Items        []CartItemResponse `json:"items"`
	TotalItems   int64              `json:"total_items"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	TotalSavings decimal.Decimal    `json:"total_savings"`
	DeliveryFee  decimal.Decimal    `json:"delivery_fee"`
	Total        decimal.Decimal    `json:"total"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// GetCart はカート取得（無ければ作って空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = buildCartResponse(ctx, r, cart.ID)
		return err
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// AddToCart はカートに追加（同一商品は数量加算、価格スナップショットは据え置き）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsInStock {
			return NewHTTPError(http.StatusBadRequest, "product is out of stock")
		}

		cart, err := r.Carts().GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//追加時点の価格を渡す。既存明細がある場合は数量だけ加算される。
		if err := r.CartItems().UpsertByCartAndProduct(ctx, cart.ID, p.ID, in.Quantity, p.Price, p.OriginalPrice); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = buildCartResponse(ctx, r, cart.ID)
		return err
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// 数量変更。0は削除（delete-on-zero）、負数は不正入力。
func (u *CartUsecase) UpdateItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity < 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "cart not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		owned, err := r.CartItems().IsOwnedByUser(ctx, cartItemID, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !owned {
			return NewHTTPError(http.StatusNotFound, "item not found in cart")
		}

		if in.Quantity == 0 {
			err = r.CartItems().DeleteByID(ctx, cartItemID)
		} else {
			err = r.CartItems().UpdateQuantity(ctx, cartItemID, in.Quantity)
		}
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "item not found in cart")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = buildCartResponse(ctx, r, cart.ID)
		return err
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// 明細削除。存在しない明細は黙って無視する（観測仕様どおりエラーにしない）。
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, cartItemID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		owned, err := r.CartItems().IsOwnedByUser(ctx, cartItemID, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if owned {
			if err := r.CartItems().DeleteByID(ctx, cartItemID); err != nil && err != repo.ErrNotFound {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		out, err = buildCartResponse(ctx, r, cart.ID)
		return err
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// 全明細削除。カート行は残る。
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = buildCartResponse(ctx, r, cart.ID)
		return err
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// 明細からサマリを組み立てる。
// subtotal = Σ qty×price、total_savings = Σ qty×(original−price)（originalがある行のみ）、
// total = subtotal + delivery_fee。割引はtotalから引かない。
func buildCartResponse(ctx context.Context, r repo.TxRepos, cartID int64) (CartResponse, error) {
	items, err := r.CartItems().ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	var totalItems int64 = 0
	subtotal := decimal.Zero
	savings := decimal.Zero

	for _, it := range items {
		qty := decimal.NewFromInt(it.Quantity)
		subtotal = subtotal.Add(it.Price.Mul(qty))
		if it.OriginalPrice.Valid {
			savings = savings.Add(it.OriginalPrice.Decimal.Sub(it.Price).Mul(qty))
		}
		totalItems += it.Quantity

		//商品が消えていても明細はスナップショットで表示する
		var info *CartProductInfo
		if p, err := r.Products().FindByID(ctx, it.ProductID); err == nil {
			info = &CartProductInfo{
				ID:        p.ID,
				Name:      p.Name,
				Image:     p.Image,
				Weight:    p.Weight,
				IsInStock: p.IsInStock,
			}
		} else if err != repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		respItems = append(respItems, CartItemResponse{
			ID:            it.ID,
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			Price:         it.Price,
			OriginalPrice: it.OriginalPrice,
			Product:       info,
			AddedAt:       it.AddedAt,
		})
	}

	fee := deliveryFeeFor(subtotal)

	return CartResponse{
		ID:           cartID,
		Items:        respItems,
		TotalItems:   totalItems,
		Subtotal:     subtotal,
		TotalSavings: savings,
		DeliveryFee:  fee,
		Total:        subtotal.Add(fee),
	}, nil
}
