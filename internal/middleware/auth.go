package middleware

import (
	"strings"

	"theatre-production-manager/internal/auth"
	"theatre-production-manager/internal/errors"

	"github.com/gin-gonic/gin"
)

// AuthUser is the slice of the account record the request context needs
type AuthUser struct {
	ID     uint64
	Plan   string
	Active bool
}

type UserProvider interface {
	AuthUser(id uint64) (*AuthUser, error)
}

type Auth struct {
	UserService UserProvider
}

func (m *Auth) AuthMiddleWare() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		var token string
		tokenQuery := ctx.Query("token")

		if authHeader != "" {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		} else if tokenQuery != "" {
			token = tokenQuery
		} else {
			ctx.Error(errors.Unauthorized("Authorization is not found!", nil))
			ctx.Abort()
			return
		}

		parsedToken, err := auth.VerifyJWT(token)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		userID, err := auth.GetUserIDFromToken(parsedToken)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		user, err := m.UserService.AuthUser(userID)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid User ID!", err))
			ctx.Abort()
			return
		}

		if !user.Active {
			ctx.Error(errors.Unauthorized("User is not active!", nil))
			ctx.Abort()
			return
		}

		ctx.Set("user_id", userID)
		ctx.Set("user_plan", user.Plan)
		ctx.Set("jwt_token", token)
		ctx.Next()
	}
}
