package router

import (
	"Team_Orga/internal/config"
	"Team_Orga/internal/handler"
	"Team_Orga/internal/middleware"
	"Team_Orga/internal/service"

	"github.com/gin-gonic/gin"
)

func InitRouter(cfg *config.Config, rec *service.DutyCountReconciler) *gin.Engine {
	r := gin.Default()

	user := handler.NewUserHandler()
	team := handler.NewTeamHandler()
	game := handler.NewGameHandler()
	offer := handler.NewOfferHandler()
	duty := handler.NewDutyHandler(cfg.Duty)
	roster := handler.NewRosterHandler()
	role := handler.NewRoleHandler()
	repair := handler.NewRepairHandler(rec)

	// 注册登录相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/logout", middleware.AuthMiddleware(), user.Logout)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 球队列表注册页要用，不要求登录
	r.GET("/api/teams", team.List)

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/change-password", user.ChangePassword)
		authGroup.GET("/profile", user.Profile)
		authGroup.PUT("/profile", user.UpdateProfile)
		authGroup.DELETE("/account/:id", user.DeleteAccount)
	}

	// 球队球员相关接口
	teamGroup := r.Group("/api/team")
	teamGroup.Use(middleware.AuthMiddleware())
	{
		teamGroup.POST("/create", team.Create)
		teamGroup.GET("/players", user.ListPlayers)
	}

	// 比赛相关接口
	gameGroup := r.Group("/api/game")
	gameGroup.Use(middleware.AuthMiddleware())
	{
		gameGroup.POST("/create", game.Create)
		gameGroup.GET("/list", game.List)
		gameGroup.GET("/:id", game.Detail)
		gameGroup.DELETE("/:id", game.Delete)
	}

	// 拼车车位发布
	offerGroup := r.Group("/api/offer")
	offerGroup.Use(middleware.AuthMiddleware())
	{
		offerGroup.POST("/create", offer.Create)
	}

	// 值日轮值单元
	dutyGroup := r.Group("/api/duty")
	dutyGroup.Use(middleware.AuthMiddleware())
	{
		dutyGroup.POST("/locker", duty.CreateLockerWeek)
		dutyGroup.POST("/wash", duty.CreateWashDay)
		dutyGroup.GET("/:kind/list", duty.List)
	}

	// 名额分配：拼车和值日共用同一组路由
	rosterGroup := r.Group("/api/roster")
	rosterGroup.Use(middleware.AuthMiddleware())
	{
		rosterGroup.POST("/:kind/:id/join", roster.Join)
		rosterGroup.POST("/:kind/:id/leave", roster.Leave)
		rosterGroup.POST("/:kind/:id/assign", roster.Assign)
		rosterGroup.POST("/:kind/:id/unassign", roster.Unassign)
		rosterGroup.DELETE("/:kind/:id", roster.Delete)
		rosterGroup.GET("/:kind/:id", roster.View)
		rosterGroup.GET("/:kind/:id/seats", roster.Seats)
	}

	// 管理员授权相关接口
	roleGroup := r.Group("/api/role")
	roleGroup.Use(middleware.AuthMiddleware())
	{
		roleGroup.POST("/grant", role.Grant)
		roleGroup.POST("/revoke", role.Revoke)
		roleGroup.GET("/admins", role.ListAdmins)
	}

	// 管理端手动对账
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware())
	{
		adminGroup.POST("/repair-counts", repair.Repair)
	}

	return r
}
