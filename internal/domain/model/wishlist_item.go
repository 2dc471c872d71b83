package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ウィッシュリストの明細。
// 表示用フィールドは追加時点のスナップショット。
// (wishlist_id, product_id) は一意で、トグルは冪等な追加/削除になる。
type WishlistItem struct {
	ID           int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	WishlistID   int64               `gorm:"not null;index;uniqueIndex:idx_wishlist_product" json:"-"`
	ProductID    int64               `gorm:"not null;index;uniqueIndex:idx_wishlist_product" json:"product_id"`
	ProductName  string              `gorm:"type:varchar(200)" json:"product_name,omitempty"`
	ProductPrice decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"product_price,omitempty"`
	ProductImage string              `gorm:"type:varchar(500)" json:"product_image,omitempty"`
	AddedAt      time.Time           `gorm:"not null;autoCreateTime" json:"added_at"`
}
