package routes

import (
	"github.com/JeffreyYAJ/Habit-tracker/handlers"
	"github.com/JeffreyYAJ/Habit-tracker/services"
	"github.com/JeffreyYAJ/Habit-tracker/utils"
	"github.com/gin-gonic/gin"
)

func registerAccountRoutes(api *gin.RouterGroup, d Deps, metrics *utils.Metrics, cached []gin.HandlerFunc) {
	accountHandler := handlers.NewAccountHandler(
		services.NewAccountService(d.DB, d.Log, d.Config.StrictReferences), d.Log, metrics)
	statsHandler := handlers.NewStatsHandler(services.NewStatsService(d.DB, d.Log), d.Log, metrics)

	api.POST("/users", accountHandler.CreateUser)
	api.GET("/users/:user_id/stats", with(cached, statsHandler.GetUserStats)...)

	api.POST("/habits", accountHandler.CreateHabit)
	api.GET("/habits/:user_id", with(cached, accountHandler.GetUserHabits)...)

	api.POST("/logs", accountHandler.CreateLog)
}
