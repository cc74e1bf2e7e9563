package main

import (
	"realestate-listing/infra"
	"realestate-listing/models"
)

func main() {
	infra.Initialize()
	db := infra.SetupDB()

	if err := db.AutoMigrate(&models.User{}, &models.Listing{}); err != nil {
		panic("Failed to migrate database")
	}

	// トークンブラックリスト用のSQLiteデータベースのマイグレーション
	tokenDB := infra.SetupTokenDB()
	if err := tokenDB.AutoMigrate(&models.BlacklistedToken{}); err != nil {
		panic("Failed to migrate token blacklist database")
	}
}
