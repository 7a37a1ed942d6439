// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/projectdesk/internal/app/auth"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/middleware"
)

// principal returns the authenticated actor, writing a 401 when the auth
// middleware did not run for this route
func principal(ctx *gin.Context) (appauth.Principal, bool) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return appauth.Principal{}, false
	}
	return p, true
}
