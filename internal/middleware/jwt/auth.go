package jwt

import (
	"strings"

	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/back"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/util/myjwt"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/xerr"

	"github.com/gin-gonic/gin"
)

func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			back.Error(c, xerr.Unauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := myjwt.ParseToken(tokenString)
		if err != nil {
			back.Error(c, xerr.Unauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("uuid", claims.Uuid)
		c.Set("username", claims.Username)
		c.Set("roles", claims.Roles)
		c.Next()
	}
}

// RequireRole gates a route group to staff carrying the given role.
// It must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, ok := c.Get("roles")
		if ok {
			if names, ok := roles.([]string); ok {
				for _, name := range names {
					if name == role {
						c.Next()
						return
					}
				}
			}
		}
		back.Error(c, xerr.Forbidden, "insufficient role")
		c.Abort()
	}
}
