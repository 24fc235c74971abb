package api

import (
	"errors"
	"net/http"

	"alcyxob/fitness-routines/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respondWithError maps a service error onto a status code. Internal causes
// are logged and never sent to the client.
func respondWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidResetToken):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUpstream):
		abortWithError(c, http.StatusBadGateway, "Generation failed, please try again")
	case errors.Is(err, service.ErrFeatureDisabled):
		abortWithError(c, http.StatusServiceUnavailable, "This feature is not configured on the server")
	default:
		log.Errorf("%s %s: %s", c.Request.Method, c.FullPath(), err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// pathID parses a hex ObjectID route parameter. A malformed id cannot match
// any document, so it is reported as not found.
func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Resource not found")
		return primitive.NilObjectID, false
	}
	return id, true
}

// currentUser reads the authenticated user id or aborts with 401.
func currentUser(c *gin.Context) (primitive.ObjectID, bool) {
	userID, ok := getUserID(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
	}
	return userID, ok
}

// bindJSON decodes the body or aborts with 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}
