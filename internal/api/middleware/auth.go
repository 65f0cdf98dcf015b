package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/posdesk/printd/internal/registry"
)

const (
	headerClientID = "x-client-id"
	headerPrintKey = "x-print-key"
)

// PrintKeyAuth gates the print endpoint behind a shared client/key pair
// looked up in the client registry. With the feature flag off every request
// passes through untouched.
type PrintKeyAuth struct {
	registry *registry.Registry
	enabled  bool
}

func NewPrintKeyAuth(reg *registry.Registry, enabled bool) *PrintKeyAuth {
	return &PrintKeyAuth{registry: reg, enabled: enabled}
}

func (a *PrintKeyAuth) Gate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.enabled {
			c.Next()
			return
		}

		clientID := c.GetHeader(headerClientID)
		printKey := c.GetHeader(headerPrintKey)
		if clientID == "" || printKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing client credentials"})
			return
		}

		client, err := a.registry.FindClient(clientID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid client"})
			return
		}

		if !client.Enabled || !matchPin(client.Pin, printKey) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid client"})
			return
		}

		c.Set("client_id", client.ID)
		c.Next()
	}
}

// matchPin accepts bcrypt-hashed pins alongside plain ones so registries can
// be hardened without a migration.
func matchPin(stored, presented string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
