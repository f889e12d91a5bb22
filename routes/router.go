// file: routes/router.go
package routes

import (
	"github.com/3liuhuo/DummyCTFPlatform/controllers"
	"github.com/3liuhuo/DummyCTFPlatform/middlewares"
	"github.com/3liuhuo/DummyCTFPlatform/models"
	"github.com/gin-gonic/gin"
)

// Controllers 路由装配所需的全部 controller
type Controllers struct {
	User      *controllers.UserController
	Contest   *controllers.ContestController
	Challenge *controllers.ChallengeController
	Record    *controllers.RecordController
}

func SetupRouter(ctl Controllers) *gin.Engine {
	r := gin.Default()

	apiV1 := r.Group("/api/v1")
	{
		usersPublic := apiV1.Group("/users")
		{
			usersPublic.POST("/register", ctl.User.Register)
			usersPublic.POST("/login", ctl.User.Login)
		}

		contestRoutes := apiV1.Group("/contest")
		{
			contestRoutes.GET("", ctl.Contest.GetCurrentContest)
			contestRoutes.POST("/register", middlewares.JWTAuthMiddleware(), ctl.Contest.Register)
		}

		challengeRoutes := apiV1.Group("/challenges")
		{
			// 选手接口
			challengeRoutes.GET("", middlewares.JWTAuthMiddleware(), ctl.Challenge.ListChallenges)
			challengeRoutes.GET("/scoreboard", ctl.Challenge.GetScoreboard)
			challengeRoutes.POST("/:ccid/submit", middlewares.JWTAuthMiddleware(), ctl.Challenge.SubmitFlag)
		}

		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.POST("/challenges", ctl.Challenge.CreateChallenge)
			adminRoutes.DELETE("/challenges/:id", ctl.Challenge.DeleteChallenge)

			adminRoutes.POST("/contests", ctl.Contest.CreateContest)
			adminRoutes.PUT("/contests/:id/state", ctl.Contest.SetContestState)
			adminRoutes.PUT("/contests/:id/current", ctl.Contest.SetCurrentContest)
			adminRoutes.POST("/contests/:id/challenges", ctl.Contest.AddContestChallenge)
			adminRoutes.PUT("/contest-challenges/:ccid/visibility", ctl.Contest.SetChallengeVisibility)

			adminRoutes.GET("/submissions", ctl.Record.GetSubmissionLogs)
		}
	}

	return r
}
