package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ActorRoleKey is the gin context key holding the caller's normalized role.
const ActorRoleKey = "actor_role"

// ActorRoleHeader carries the caller's role. The gateway in front of this
// service authenticates the user and injects the header, so its value is
// trusted as-is.
const ActorRoleHeader = "X-Actor-Role"

// ActorRole extracts the role header and places its normalized form on the
// context. Authorization decisions happen in the service layer per operation;
// an absent header simply means an empty role, which no grant matches.
func ActorRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := strings.ToUpper(strings.TrimSpace(c.GetHeader(ActorRoleHeader)))
		c.Set(ActorRoleKey, role)
		c.Next()
	}
}
