package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Email       string    `gorm:"not null;unique"`
	Password    string    `gorm:"not null"`
	FirstName   string    `gorm:"not null;default:''"`
	LastName    string    `gorm:"not null;default:''"`
	Address     string    `gorm:"type:text;not null;default:''"`
	PhoneNumber string    `gorm:"size:17;not null;default:''"`
	LoginCount  uint      `gorm:"not null;default:0"`
	IsStaff     bool      `gorm:"not null;default:false"`
	Listings    []Listing `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE;"`
}
