package routes

import (
	"essaydesk/internal/controllers"
	"essaydesk/pkg/constants"
	"essaydesk/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runOrderRouter(secureGroup *echo.Group, orderCtrl *controllers.OrderController, authMW *middleware.AuthMiddleware) {
	staffOnly := authMW.RequireRoles(constants.RoleStaff, constants.RoleAdmin)
	adminOnly := authMW.RequireRoles(constants.RoleAdmin)

	{
		secureGroup.GET("/orders", orderCtrl.GetOrders)
		secureGroup.POST("/orders", orderCtrl.CreateOrder)
		secureGroup.GET("/orders/:id", orderCtrl.FindOrder)
		secureGroup.GET("/orders/:id/messages", orderCtrl.GetOrderMessages)
		secureGroup.GET("/orders/:id/files", orderCtrl.GetOrderFiles)

		// Переходы жизненного цикла
		secureGroup.POST("/orders/:id/assign", orderCtrl.AssignOrder, staffOnly)
		secureGroup.POST("/orders/:id/complete", orderCtrl.CompleteOrder, staffOnly)
		secureGroup.POST("/orders/:id/reject", orderCtrl.RejectOrder, staffOnly)
		secureGroup.POST("/orders/:id/revision", orderCtrl.RequestRevision)
		secureGroup.POST("/orders/:id/status", orderCtrl.SetStatus, adminOnly)

		secureGroup.POST("/orders/:id/recalculate", orderCtrl.RecalculateOrder)
	}
}
