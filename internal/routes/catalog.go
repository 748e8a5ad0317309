package routes

import (
	"essaydesk/internal/controllers"
	"essaydesk/pkg/constants"
	"essaydesk/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runCatalogRouter(secureGroup *echo.Group, catalogCtrl *controllers.CatalogController, authMW *middleware.AuthMiddleware) {
	adminOnly := authMW.RequireRoles(constants.RoleAdmin)
	{
		secureGroup.DELETE("/catalog/cache", catalogCtrl.InvalidateCache, adminOnly)
	}
}
