package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カタログの商品。
// カート・注文側からは読み取り専用のスナップショット元。
type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(200);not null;index" json:"name"`
	Slug        string `gorm:"type:varchar(200);not null;index" json:"slug"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	CategoryID  *int64 `gorm:"index" json:"category_id,omitempty"`
	Subcategory string `gorm:"type:varchar(100)" json:"subcategory,omitempty"`

	Price decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`

	//割引前価格（無い商品もある）
	OriginalPrice      decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"original_price,omitempty"`
	DiscountPercentage int64               `gorm:"not null;default:0" json:"discount_percentage"`

	Weight string `gorm:"type:varchar(50)" json:"weight,omitempty"`
	Unit   string `gorm:"type:varchar(20);not null;default:'piece'" json:"unit"`
	Image  string `gorm:"type:varchar(500)" json:"image,omitempty"`

	StockQuantity int64 `gorm:"not null;default:0" json:"-"`
	IsInStock     bool  `gorm:"not null;default:true" json:"is_in_stock"`
	IsActive      bool  `gorm:"not null;default:true" json:"-"`
	IsFeatured    bool  `gorm:"not null;default:false" json:"is_featured"`
	IsOrganic     bool  `gorm:"not null;default:false" json:"is_organic"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}
