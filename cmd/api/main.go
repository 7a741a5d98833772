package main

import (
	"fmt"
	"net/http"

	"github.com/callcoach/scorecard-backend-go/internal/config"
	appHTTP "github.com/callcoach/scorecard-backend-go/internal/handler/http"
	"github.com/callcoach/scorecard-backend-go/internal/pkg/cache"
	"github.com/callcoach/scorecard-backend-go/internal/pkg/database"
	"github.com/callcoach/scorecard-backend-go/internal/pkg/jwt"
	"github.com/callcoach/scorecard-backend-go/internal/repository/postgresql"
	"github.com/callcoach/scorecard-backend-go/internal/service/access"
	scorecardService "github.com/callcoach/scorecard-backend-go/internal/service/scorecard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	scorecardRepo := postgresql.NewScorecardRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)
	resolver := access.NewResolver(userRepo)
	scorecardCache := cache.NewMemoryCache()
	scorecardSvc := scorecardService.NewScorecardService(
		userRepo,
		scorecardRepo,
		resolver,
		scorecardCache,
		cfg.Cache.TTL,
	)

	scorecardHandler := appHTTP.NewScorecardHandler(scorecardSvc)

	router := appHTTP.NewRouter(
		jwtService,
		scorecardHandler,
		cfg.App.AllowedOrigins,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
