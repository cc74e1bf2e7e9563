package models

import "gorm.io/gorm"

// ログアウト済みトークン。有効期限が切れるまで保持する
type BlacklistedToken struct {
	gorm.Model
	Token     string `gorm:"not null;unique;index"`
	ExpiresAt int64  `gorm:"not null;index"`
}
