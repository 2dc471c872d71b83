package usecase

import (
	"context"
	"crypto/rand"
	"math/big"
	"net/http"
	"strings"
	"time"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"

	"github.com/shopspring/decimal"
)

// 注文番号: FM + yyyymmddHHMM + 乱数4桁。
// 一意性は確率的なので、衝突したら採番し直す。
const orderNumberPrefix = "FM"

// 採番衝突時のリトライ上限
const orderNumberAttempts = 3

// OrderUsecase は /api/orders の業務ロジック。
// チェックアウトはカート行ロック付きの1トランザクションで行う。
type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type CheckoutInput struct {
	DeliveryAddress string
	DeliveryCity    string
	DeliveryState   string
	DeliveryPincode string
	DeliveryPhone   string
	PaymentMethod   string
	CustomerNotes   string
	CouponCode      string
}

type OrderOutput struct {
	model.Order
	Items []model.OrderItem `json:"items"`
}

// Checkout はカートを不変の注文へ変換する。
//  1. 明細ゼロなら cart empty
//  2. subtotal / discount / delivery_fee / total を計算（discountはtotalから引かない）
//  3. 注文番号を採番（衝突時は振り直し）
//  4. 明細をその時点の商品表示情報でスナップショット
//  5. カート明細を全削除（カート行は残す）
//  6. ユーザーの累計節約額にdiscountを加算
//
// 全部を1トランザクションで行い、途中失敗はすべて巻き戻す。
func (u *OrderUsecase) Checkout(ctx context.Context, userID int64, in CheckoutInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.DeliveryAddress) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid delivery_address")
	}
	if strings.TrimSpace(in.DeliveryPhone) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid delivery_phone")
	}

	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cod"
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カート行ロックで同一ユーザーの同時add/checkoutを直列化
		cart, err := r.Carts().LockByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		subtotal := decimal.Zero
		discount := decimal.Zero
		for _, ci := range cartItems {
			qty := decimal.NewFromInt(ci.Quantity)
			subtotal = subtotal.Add(ci.Price.Mul(qty))
			if ci.OriginalPrice.Valid {
				discount = discount.Add(ci.OriginalPrice.Decimal.Sub(ci.Price).Mul(qty))
			}
		}
		fee := deliveryFeeFor(subtotal)

		order := model.Order{
			UserID:          userID,
			Status:          model.OrderStatusPending,
			PaymentStatus:   model.PaymentStatusPending,
			PaymentMethod:   paymentMethod,
			Subtotal:        subtotal,
			Discount:        discount,
			DeliveryFee:     fee,
			Tax:             decimal.Zero,
			Total:           subtotal.Add(fee),
			DeliveryAddress: in.DeliveryAddress,
			DeliveryCity:    in.DeliveryCity,
			DeliveryState:   in.DeliveryState,
			DeliveryPincode: in.DeliveryPincode,
			DeliveryPhone:   in.DeliveryPhone,
			CustomerNotes:   in.CustomerNotes,
			CouponCode:      in.CouponCode,
			CouponDiscount:  decimal.Zero,
		}

		//採番して作成。番号衝突だけ振り直す。
		created := false
		for i := 0; i < orderNumberAttempts; i++ {
			order.OrderNumber = generateOrderNumber(time.Now())
			err = r.Orders().Create(ctx, &order)
			if err == nil {
				created = true
				break
			}
			if err != repo.ErrDuplicate {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
		if !created {
			return NewHTTPError(http.StatusInternalServerError, "order number conflict")
		}

		//明細スナップショット。商品が消えていてもカート側のスナップショットで注文は成立する。
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			productID := ci.ProductID
			item := model.OrderItem{
				ProductID:     &productID,
				ProductName:   "Unknown",
				Quantity:      ci.Quantity,
				Price:         ci.Price,
				OriginalPrice: ci.OriginalPrice,
			}

			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err == nil {
				item.ProductName = p.Name
				item.ProductImage = p.Image
				item.ProductWeight = p.Weight
			} else if err != repo.ErrNotFound {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			orderItems = append(orderItems, item)
		}

		if err := r.OrderItems().CreateBulk(ctx, order.ID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Users().AddSavings(ctx, userID, discount); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = OrderOutput{Order: order, Items: orderItems}
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 自分の注文一覧（新しい順）
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, OrderOutput{Order: o, Items: items})
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "order not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = OrderOutput{Order: o, Items: items}
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func generateOrderNumber(now time.Time) string {
	return orderNumberPrefix + now.Format("200601021504") + randomDigits(4)
}

// 暗号乱数で数字n桁
func randomDigits(n int) string {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			//乱数が取れない環境では起動すべきでない
			panic(err)
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits)
}
