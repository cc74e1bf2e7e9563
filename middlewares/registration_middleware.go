package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"realestate-listing/services"
)

// RegistrationGuard は登録エンドポイントの認可を制御する。
// ユーザーが1人もいない間は無認証で通し（ブートストラップ）、
// 以降はスタッフ権限のトークンを要求する
func RegistrationGuard(authService services.IAuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		hasUsers, err := authService.HasUsers()
		if err != nil {
			ctx.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if !hasUsers {
			ctx.Set("bootstrap", true)
			ctx.Next()
			return
		}

		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		user, err := authService.GetUserFromToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !user.IsStaff {
			ctx.AbortWithStatus(http.StatusForbidden)
			return
		}

		ctx.Set("user", user)

		ctx.Next()
	}
}
