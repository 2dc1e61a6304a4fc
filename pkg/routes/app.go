package route

import (
	"github.com/gofiber/fiber/v2"
	controller "github.com/sh5080/vision-go/pkg/controllers"
)

// SetupAppRoutes는 애플리케이션 관련 라우트를 설정합니다
func SetupAppRoutes(app *fiber.App, isServerless bool) {
	// 상태 확인 API
	app.Get("/health", controller.Health())

	// 메트릭 API (서버리스 환경에서는 스크레이핑 대상이 아님)
	if !isServerless {
		app.Get("/metrics", controller.Metrics())
	}
}
