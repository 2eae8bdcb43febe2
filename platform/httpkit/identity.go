package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity is the authenticated caller as seen by handlers. It hides the
// gin context keys the auth middleware writes, so services and handlers
// never touch framework state directly.
type Identity interface {
	UserID() uuid.UUID
	Roles() []string
	HasRole(role string) bool
	IsAuthenticated() bool
}

type tokenIdentity struct {
	userID        uuid.UUID
	roles         []string
	authenticated bool
}

func (i *tokenIdentity) UserID() uuid.UUID { return i.userID }
func (i *tokenIdentity) Roles() []string   { return i.roles }

func (i *tokenIdentity) HasRole(role string) bool {
	for _, have := range i.roles {
		if have == role {
			return true
		}
	}
	return false
}

func (i *tokenIdentity) IsAuthenticated() bool { return i.authenticated }

// GetIdentity reads the caller identity the auth middleware stored on the
// context. Requests that skipped the middleware yield an unauthenticated
// identity rather than an error.
func GetIdentity(c *gin.Context) Identity {
	rawUserID, ok := c.Get(ContextUserIDKey)
	if !ok {
		return &tokenIdentity{}
	}
	userID, ok := rawUserID.(uuid.UUID)
	if !ok {
		return &tokenIdentity{}
	}

	var roles []string
	if rawRoles, ok := c.Get(ContextRolesKey); ok {
		roles, _ = rawRoles.([]string)
	}

	return &tokenIdentity{userID: userID, roles: roles, authenticated: true}
}

// MustGetIdentity is GetIdentity for handlers that require a caller: an
// unauthenticated request is aborted with 401 and nil is returned.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}
