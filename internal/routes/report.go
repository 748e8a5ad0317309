package routes

import (
	"essaydesk/internal/controllers"
	"essaydesk/pkg/constants"
	"essaydesk/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runReportRouter(secureGroup *echo.Group, reportCtrl *controllers.ReportController, authMW *middleware.AuthMiddleware) {
	staffOnly := authMW.RequireRoles(constants.RoleStaff, constants.RoleAdmin)
	{
		secureGroup.GET("/reports/orders", reportCtrl.ExportOrders, staffOnly)
	}
}
