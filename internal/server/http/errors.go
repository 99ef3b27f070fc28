package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/gin-gonic/gin"
)

const validationMessage = "user errors, check the data you have inserted"

type errorMapping struct {
	target  error
	status  int
	message string
	result  string
}

// errorTable is matched top to bottom; the first errors.Is hit wins.
var errorTable = []errorMapping{
	{common.ErrDuplicateEmail, http.StatusConflict, "email already exists", metrics.ResultDuplicate},
	{common.ErrorUnauthorized, http.StatusUnauthorized, "email or password is incorrect", metrics.ResultUnauthorized},
	{common.ErrTokenExpired, http.StatusUnauthorized, "token expired", metrics.ResultUnauthorized},
	{common.ErrTokenMalformed, http.StatusUnauthorized, "invalid token", metrics.ResultUnauthorized},
	{common.ErrTokenSignatureInvalid, http.StatusUnauthorized, "invalid token", metrics.ResultUnauthorized},
	{common.ErrInvalidToken, http.StatusUnauthorized, "invalid token", metrics.ResultUnauthorized},
	{common.ErrVerificationExpired, http.StatusGone, "verification link has expired", metrics.ResultExpired},
	{common.ErrVerificationInvalid, http.StatusBadRequest, "verification link is invalid", metrics.ResultInvalid},
	{common.ErrAlreadyVerified, http.StatusConflict, "email already verified", metrics.ResultAlreadyVerified},
	{common.ErrorNotFound, http.StatusNotFound, "not found", metrics.ResultInvalid},
	{common.ErrMailTimeout, http.StatusGatewayTimeout, "sending verification email timed out", metrics.ResultTimeout},
	{common.ErrMailDispatch, http.StatusBadGateway, "sending verification email has failed", metrics.ResultError},
	{common.ErrHashing, http.StatusInternalServerError, "system error, hash failure", metrics.ResultError},
	{common.ErrStorage, http.StatusInternalServerError, "system error, storage failure", metrics.ResultError},
}

// classify maps err to its HTTP status, public message and metrics result.
// Validation errors are handled by the caller.
func classify(err error) errorMapping {
	var verr *common.ValidationError
	if errors.As(err, &verr) {
		return errorMapping{status: http.StatusBadRequest, message: validationMessage, result: metrics.ResultInvalid}
	}
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return m
		}
	}
	return errorMapping{status: http.StatusInternalServerError, message: "internal error", result: metrics.ResultError}
}

// writeError sends the public form of err. Detail of server-side failures
// only goes to the log.
func (s *HTTPServer) writeError(c *gin.Context, err error) errorMapping {
	m := classify(err)

	if m.status >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed",
			"path", c.FullPath(), "request_id", c.GetString(requestIDKey), "error", err)
	}

	body := gin.H{"success": false, "message": m.message}
	var verr *common.ValidationError
	if errors.As(err, &verr) {
		body["errors"] = verr.Messages
	}
	c.AbortWithStatusJSON(m.status, body)
	return m
}
