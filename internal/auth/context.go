package auth

import (
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Principal is the verified caller of a request.
type Principal struct {
	UserID string
	Role   string
}

func (p *Principal) HasRole(role string) bool {
	return p != nil && p.Role == role
}

func SetPrincipal(c *gin.Context, p *Principal) {
	c.Set(principalKey, p)
}

// GetPrincipal returns the principal set by the middleware, or nil.
func GetPrincipal(c *gin.Context) *Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*Principal)
	return p
}

// Groups splits a router by the access level its routes require.
type Groups struct {
	Public gin.IRouter
	User   gin.IRouter
	Admin  gin.IRouter
}

func (a *Authenticator) Groups(r gin.IRouter, adminRole string) Groups {
	user := r.Group("", a.Middleware())
	return Groups{
		Public: r,
		User:   user,
		Admin:  user.Group("", RequireRole(adminRole)),
	}
}
