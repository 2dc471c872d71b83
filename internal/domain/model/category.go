package model

import "time"

// 商品カテゴリ
type Category struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Slug        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Image       string `gorm:"type:varchar(500)" json:"image,omitempty"`
	Icon        string `gorm:"type:varchar(50)" json:"icon,omitempty"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`

	//一覧の並び順
	DisplayOrder int64     `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"-"`
}
