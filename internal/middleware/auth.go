package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/guard"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/auth"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

const (
	ContextActor  = "actor"
	ContextClaims = "claims"
)

// Authenticator resolves a bearer token to the caller.
type Authenticator interface {
	Authenticate(token string) (model.Actor, *auth.Claims, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller in the context.
func Authenticate(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, claims, err := a.Authenticate(bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			httputil.Abort(c, err)
			return
		}
		c.Set(ContextActor, actor)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func ActorFrom(c *gin.Context) (model.Actor, bool) {
	v, ok := c.Get(ContextActor)
	if !ok {
		return model.Actor{}, false
	}
	actor, ok := v.(model.Actor)
	return actor, ok
}

func ClaimsFrom(c *gin.Context) *auth.Claims {
	v, _ := c.Get(ContextClaims)
	claims, _ := v.(*auth.Claims)
	return claims
}

// Capabilities returns the decisions for the authenticated caller. A request
// that never passed Authenticate gets an actor with no role.
func Capabilities(c *gin.Context) guard.Capabilities {
	actor, _ := ActorFrom(c)
	return guard.For(actor)
}
