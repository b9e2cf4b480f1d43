package middleware

import (
	"github.com/emojitopng/emojitopng-backend/internal/common"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AdminKeyHeader 관리자 키 헤더
const AdminKeyHeader = "X-Admin-Key"

// AdminKey guards dataset administration with a shared key checked against
// a bcrypt hash. An empty hash disables every admin route.
func AdminKey(keyHash string) gin.HandlerFunc {
	hash := []byte(keyHash)

	return func(c *gin.Context) {
		if len(hash) == 0 {
			common.V2ErrorResponse(c, common.StatusFor(common.ErrForbidden), "관리자 기능이 비활성화되어 있습니다", nil)
			c.Abort()
			return
		}

		key := c.GetHeader(AdminKeyHeader)
		if key == "" {
			common.V2ErrorResponse(c, common.StatusFor(common.ErrUnauthorized), "관리자 키가 필요합니다", nil)
			c.Abort()
			return
		}

		if err := bcrypt.CompareHashAndPassword(hash, []byte(key)); err != nil {
			common.V2ErrorResponse(c, common.StatusFor(common.ErrUnauthorized), "관리자 키가 올바르지 않습니다", common.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set("admin", true)
		c.Next()
	}
}
