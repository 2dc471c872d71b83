package model

import "github.com/shopspring/decimal"

// 注文明細。作成時点の商品表示情報を持つ不変スナップショット。
// 商品が後から削除・値下げされても明細は変わらない（product_idはnullableな逆参照のみ）。
type OrderItem struct {
	ID            int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       int64               `gorm:"not null;index" json:"-"`
	ProductID     *int64              `gorm:"index" json:"product_id,omitempty"`
	ProductName   string              `gorm:"type:varchar(200);not null" json:"product_name"`
	ProductImage  string              `gorm:"type:varchar(500)" json:"product_image,omitempty"`
	ProductWeight string              `gorm:"type:varchar(50)" json:"product_weight,omitempty"`
	Quantity      int64               `gorm:"not null" json:"quantity"`
	Price         decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"price"`
	OriginalPrice decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"original_price,omitempty"`
}
