package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// 登録経路（email / phone）
type Provider string

const (
	ProviderEmail Provider = "email"
	ProviderPhone Provider = "phone"
)

// email / phone はそれぞれ任意だが、設定されていれば全体で一意。
type User struct {
	ID           int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	UID          string  `gorm:"type:varchar(128);uniqueIndex" json:"uid"`
	Name         string  `gorm:"type:varchar(100);not null;default:'Guest User'" json:"name"`
	Email        *string `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	Phone        *string `gorm:"type:varchar(15);uniqueIndex" json:"phone,omitempty"`
	PasswordHash *string `gorm:"type:varchar(255)" json:"-"`
	Role         Role    `gorm:"type:varchar(20);not null;default:'USER'" json:"-"`

	ProfilePhoto string `gorm:"type:text" json:"profile_photo,omitempty"`
	Address      string `gorm:"type:text" json:"address,omitempty"`
	City         string `gorm:"type:varchar(100)" json:"city,omitempty"`
	State        string `gorm:"type:varchar(100)" json:"state,omitempty"`
	Pincode      string `gorm:"type:varchar(10)" json:"pincode,omitempty"`

	WalletBalance decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"wallet_balance"`

	//注文確定のたびにdiscount分を加算する累計節約額
	TotalSavings decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total_savings"`

	NotificationsEnabled bool     `gorm:"not null;default:true" json:"notifications_enabled"`
	IsActive             bool     `gorm:"not null;default:true" json:"-"`
	IsVerified           bool     `gorm:"not null;default:false" json:"is_verified"`
	Provider             Provider `gorm:"type:varchar(50);not null;default:'email'" json:"-"`

	LastLoginAt *time.Time `json:"-"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"-"`
}
