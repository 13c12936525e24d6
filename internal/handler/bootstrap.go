package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/nonce"
)

// recordPath is where bootstrapped clients submit events.
const recordPath = "/track/record"

// BootstrapHandler hands page renders the coordinates the tracker needs:
// the record endpoint and a fresh nonce.
type BootstrapHandler struct {
	signer *nonce.Signer
}

// NewBootstrapHandler creates a BootstrapHandler using the given signer.
func NewBootstrapHandler(signer *nonce.Signer) *BootstrapHandler {
	return &BootstrapHandler{signer: signer}
}

// HandleBootstrap issues a nonce for the requesting page.
func (h *BootstrapHandler) HandleBootstrap(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"endpoint": recordPath,
		"nonce":    h.signer.Issue(time.Now()),
	})
}
