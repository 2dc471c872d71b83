package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細。
// price / original_price は追加時点のスナップショットで、以後商品側が変わっても更新しない。
// (cart_id, product_id) は一意。同一商品の追加は数量加算になる。
type CartItem struct {
	ID            int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID        int64               `gorm:"not null;index;uniqueIndex:idx_cart_product" json:"-"`
	ProductID     int64               `gorm:"not null;index;uniqueIndex:idx_cart_product" json:"product_id"`
	Quantity      int64               `gorm:"not null;default:1" json:"quantity"`
	Price         decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"price"`
	OriginalPrice decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"original_price,omitempty"`
	AddedAt       time.Time           `gorm:"not null;autoCreateTime" json:"added_at"`
}
