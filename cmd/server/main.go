package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sh5080/vision-go/pkg/configs"
	middleware "github.com/sh5080/vision-go/pkg/middlewares"
	route "github.com/sh5080/vision-go/pkg/routes"
	"github.com/sh5080/vision-go/pkg/utils"
)

func main() {
	// .env 파일 로드 (없으면 무시)
	godotenv.Load()

	// 메트릭 초기화
	utils.InitMetrics()

	config := configs.GetConfig()

	app := fiber.New(fiber.Config{
		AppName:   config.Server.AppName,
		BodyLimit: 10 * 1024 * 1024,
	})

	// 미들웨어 설정
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(middleware.Prometheus())

	// 라우트 설정
	route.SetupRoutes(app, false) // false: 서버리스 환경 아님을 표시

	// 종료 시그널 처리
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		app.Shutdown()
	}()

	// 서버 시작
	log.Fatal(app.Listen(":" + config.Server.Port))
}
