package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-listing/models"
)

// StaffOnly はスタッフ権限を持つユーザーのみ通す。
// AuthMiddlewareの後に使用する（ctxに"user"が設定されている必要がある）
func StaffOnly() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, exists := ctx.Get("user")
		if !exists {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		userModel, ok := user.(*models.User)
		if !ok {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// トークンのクレームではなく、DBから取得した最新のユーザー情報で判定する
		if !userModel.IsStaff {
			ctx.AbortWithStatus(http.StatusForbidden)
			return
		}

		ctx.Next()
	}
}
