package model

import "time"

// 電話番号ログイン用のワンタイムコード。
// 送信で上書き、検証か期限切れで削除する。プロセス内マップではなくDBに置き、
// 再起動や複数インスタンスでも共有できるようにする。
type OTPCode struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	Phone     string    `gorm:"type:varchar(15);not null;uniqueIndex" json:"phone"`
	Code      string    `gorm:"type:varchar(6);not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"-"`
}

// 期限切れかどうか
func (o OTPCode) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
