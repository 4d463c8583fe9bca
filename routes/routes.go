package routes

import (
	"matsuri/icon"
	"matsuri/middleware"
	"matsuri/plans"
	"matsuri/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddPlanRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/v1/plans", plans.GetPlans)
	router.GET("/v1/plans/:plan_id", plans.GetPlan)
	router.PUT("/v1/plans/:plan_id", middleware.Authenticate(plans.PutPlan))
	router.PATCH("/v1/plans/:plan_id", middleware.Authenticate(plans.PatchPlan))
	router.DELETE("/v1/plans/:plan_id", middleware.Authenticate(plans.DeletePlan))
	router.POST("/v1/plans", rl.Limit(middleware.Authenticate(plans.BulkCreatePlans)))
}

func AddDetailsRoutes(router *httprouter.Router) {
	router.GET("/v1/plans/:plan_id/details", plans.GetDetails)
	router.PUT("/v1/plans/:plan_id/details", middleware.Authenticate(plans.PutDetails))
	router.PATCH("/v1/plans/:plan_id/details", middleware.Authenticate(plans.PatchDetails))
}

func AddIconRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/v1/plans/:plan_id/icon", icon.GetIcon)
	router.PUT("/v1/plans/:plan_id/icon", rl.Limit(middleware.Authenticate(icon.PutIcon)))
	router.POST("/v1/plans/:plan_id/icon/import", rl.Limit(middleware.Authenticate(icon.ImportIcon)))
	router.GET("/v1/plans/:plan_id/qr", icon.PlanQR)
}
