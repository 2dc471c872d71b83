package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// ステータスの進行順。cancelled と delivered は終端。
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
}

// ステータス遷移が許されるかを判定する。
// 前進のみ許可。cancelled は非終端状態からならどこからでも入れる。
func CanTransition(from OrderStatus, to OrderStatus) bool {
	if from == to {
		return false
	}
	if from == OrderStatusDelivered || from == OrderStatusCancelled {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}

	fromRank, ok := orderStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := orderStatusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// チェックアウト時にカートから原子的に作られる注文。
// 作成後は status / payment系 / delivered_at 以外は不変。
type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//FM + yyyymmddHHMM + 乱数4桁
	OrderNumber string `gorm:"type:varchar(50);not null;uniqueIndex" json:"order_number"`

	UserID        int64         `gorm:"not null;index" json:"-"`
	Status        OrderStatus   `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(50);not null;default:'pending'" json:"payment_status"`
	PaymentMethod string        `gorm:"type:varchar(50)" json:"payment_method,omitempty"`

	Subtotal decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`

	//表示・集計用。total からは引かない（観測仕様どおり）。
	Discount    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount"`
	DeliveryFee decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"delivery_fee"`
	Tax         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"tax"`
	Total       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`

	//配送先スナップショット
	DeliveryAddress string `gorm:"type:text;not null" json:"delivery_address"`
	DeliveryCity    string `gorm:"type:varchar(100)" json:"delivery_city,omitempty"`
	DeliveryState   string `gorm:"type:varchar(100)" json:"delivery_state,omitempty"`
	DeliveryPincode string `gorm:"type:varchar(10)" json:"delivery_pincode,omitempty"`
	DeliveryPhone   string `gorm:"type:varchar(15)" json:"delivery_phone,omitempty"`

	CustomerNotes string `gorm:"type:text" json:"customer_notes,omitempty"`

	//クーポンはコードを保存するだけで割引は常にゼロ
	CouponCode     string          `gorm:"type:varchar(50)" json:"coupon_code,omitempty"`
	CouponDiscount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"coupon_discount"`

	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"-"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}
