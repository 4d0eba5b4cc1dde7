package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clarinovist/ceritakita-booking-sub001/types"
)

// respondError maps the error taxonomy onto HTTP responses. Validation and
// conflict errors surface their specific message; database and unknown
// failures surface a generic one while the detail stays in the log.
func respondError(c *gin.Context, err error) {
	var (
		ve *types.ValidationError
		lt *types.LockTimeoutError
		sc *types.SlotConflictError
		nf *types.NotFoundError
		pd *types.PermissionDeniedError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.As(err, &lt):
		c.JSON(http.StatusLocked, gin.H{"error": "Resource is busy, please try again"})
	case errors.As(err, &sc):
		c.JSON(http.StatusConflict, gin.H{"error": sc.Error()})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.As(err, &pd):
		c.JSON(http.StatusForbidden, gin.H{"error": pd.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// actorFrom returns the authenticated username for audit trails.
func actorFrom(c *gin.Context) string {
	if username := c.GetString("username"); username != "" {
		return username
	}
	return "system"
}
