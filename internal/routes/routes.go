package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/valeriaulyamaeva/finflow/internal/docs"
	"github.com/valeriaulyamaeva/finflow/internal/handlers"
	"github.com/valeriaulyamaeva/finflow/internal/metrics"
	"github.com/valeriaulyamaeva/finflow/internal/middleware"
	"github.com/valeriaulyamaeva/finflow/internal/service"
)

type Options struct {
	// Limiter nil disables rate limiting.
	Limiter     middleware.Limiter
	CORSOrigins []string
	Logger      *logrus.Logger
	// HealthCheck backs /health; nil always reports ok.
	HealthCheck func(context.Context) error
	// PublicURL is advertised as the server in the OpenAPI document.
	PublicURL string
}

func SetupRouter(svc *service.Services, tokens middleware.TokenVerifier, opts Options) (*gin.Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.Metrics(), middleware.CORS(origins))
	if opts.Limiter != nil {
		r.Use(middleware.RateLimit(opts.Limiter))
	}

	r.GET("/health", handlers.HealthHandler(opts.HealthCheck))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	serverURL := ""
	if opts.PublicURL != "" {
		serverURL = opts.PublicURL + "/api"
	}
	if err := docs.Register(api, serverURL); err != nil {
		return nil, err
	}

	api.POST("/register", handlers.RegisterHandler(svc.Users))
	api.POST("/login", handlers.LoginHandler(svc.Users))
	api.GET("/users", handlers.ListUsersHandler(svc.Users))
	api.GET("/user/:id", handlers.GetUserHandler(svc.Users))
	api.DELETE("/user/:id", handlers.DeleteUserHandler(svc.Users))

	protected := api.Group("", middleware.RequireAuth(tokens, svc.Users))

	protected.POST("/accounts", handlers.CreateAccountHandler(svc.Accounts))
	protected.GET("/accounts", handlers.ListAccountsHandler(svc.Accounts))
	protected.DELETE("/accounts", handlers.DeleteAllAccountsHandler(svc.Accounts))
	protected.PATCH("/account/:id", handlers.UpdateAccountHandler(svc.Accounts))
	protected.DELETE("/account/:id", handlers.DeleteAccountHandler(svc.Accounts))

	protected.POST("/category", handlers.CreateCategoryHandler(svc.Categories))
	protected.GET("/categories", handlers.ListCategoriesHandler(svc.Categories))
	protected.DELETE("/categories/all", handlers.DeleteAllCategoriesHandler(svc.Categories))
	protected.PATCH("/category/:id", handlers.UpdateCategoryHandler(svc.Categories))
	protected.DELETE("/category/:id", handlers.DeleteCategoryHandler(svc.Categories))

	protected.POST("/transaction", handlers.CreateTransactionHandler(svc.Transactions))
	protected.GET("/transactions", handlers.ListTransactionsHandler(svc.Transactions))
	protected.PATCH("/transaction/:id", handlers.UpdateTransactionHandler(svc.Transactions))
	protected.DELETE("/transaction/:id", handlers.DeleteTransactionHandler(svc.Transactions))

	protected.POST("/budget", handlers.CreateBudgetHandler(svc.Budgets))
	protected.GET("/budgets", handlers.ListBudgetsHandler(svc.Budgets))
	protected.PATCH("/budget/:id", handlers.UpdateBudgetHandler(svc.Budgets))
	protected.DELETE("/budget/:id", handlers.DeleteBudgetHandler(svc.Budgets))

	protected.POST("/goal", handlers.CreateGoalHandler(svc.Goals))
	protected.GET("/goals", handlers.ListGoalsHandler(svc.Goals))
	protected.PATCH("/goal/:id", handlers.UpdateGoalHandler(svc.Goals))
	protected.DELETE("/goal/:id", handlers.DeleteGoalHandler(svc.Goals))

	return r, nil
}
