package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Listing struct {
	gorm.Model
	Description string          `gorm:"type:text;not null;default:''"`
	Address     string          `gorm:"type:text;not null;default:''"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	CreatedByID uint            `gorm:"not null;index"`
}
