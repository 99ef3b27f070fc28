package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name,omitempty"`
	Permissions []string  `json:"permissions"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Permissions: u.Permissions,
		Verified:    u.Verified,
		CreatedAt:   u.CreatedAt,
	}
}

func (s *HTTPServer) badBody(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": validationMessage,
		"errors":  []string{"request body must be a JSON object"},
	})
}

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) signup(c *gin.Context) {
	var req services.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.opts.Metrics.Signup(metrics.ResultInvalid)
		s.badBody(c)
		return
	}

	ctx := c.Request.Context()

	user, err := s.auth.Signup(ctx, req)
	if err != nil {
		m := s.writeError(c, err)
		s.opts.Metrics.Signup(m.result)
		return
	}
	s.opts.Metrics.Signup(metrics.ResultSuccess)

	if !s.opts.SendVerificationOnSignup {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "signed up successfully",
			"user":    toUserResponse(user),
		})
		return
	}

	// The account exists at this point; a mail failure is reported but
	// does not undo the signup.
	if _, err := s.verification.Initiate(ctx, user); err != nil {
		message := "signed up, but sending the verification email has failed"
		if errors.Is(err, common.ErrMailDispatch) {
			s.logger.Warn(ctx, "signup verification email failed",
				"user_id", user.ID, "request_id", c.GetString(requestIDKey), "error", err)
		} else {
			message = "signed up, but the verification link could not be created"
			s.logger.Error(ctx, "signup verification failed",
				"user_id", user.ID, "request_id", c.GetString(requestIDKey), "error", err)
		}
		c.JSON(http.StatusOK, gin.H{
			"success":               true,
			"message":               message,
			"user":                  toUserResponse(user),
			"verificationEmailSent": false,
			"verificationError":     classify(err).message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"message":               "pending! verification email is sent",
		"user":                  toUserResponse(user),
		"verificationEmailSent": true,
	})
}

func (s *HTTPServer) signin(c *gin.Context) {
	var req services.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.opts.Metrics.Signin(metrics.ResultInvalid)
		s.badBody(c)
		return
	}

	res, err := s.auth.Signin(c.Request.Context(), req)
	if err != nil {
		m := s.writeError(c, err)
		s.opts.Metrics.Signin(m.result)
		return
	}
	s.opts.Metrics.Signin(metrics.ResultSuccess)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "sign in success",
		"userId":  res.UserID,
		"token":   res.Token,
	})
}

// signout holds no server state to clear: tokens are stateless and the
// client discards its copy.
func (s *HTTPServer) signout(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *HTTPServer) verify(c *gin.Context) {
	err := s.verification.Verify(c.Request.Context(), c.Param("userId"), c.Param("uniqueString"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "email verified"})
}

func (s *HTTPServer) resend(c *gin.Context) {
	claims := claimsFrom(c)

	if _, err := s.verification.Resend(c.Request.Context(), claims.UserInfo.UserID); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "pending! verification email is sent"})
}

func (s *HTTPServer) me(c *gin.Context) {
	claims := claimsFrom(c)

	user, err := s.auth.User(c.Request.Context(), claims.UserInfo.UserID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": toUserResponse(user)})
}
