package route

import (
	"github.com/gofiber/fiber/v2"
	controller "github.com/sh5080/vision-go/pkg/controllers"
	_interface "github.com/sh5080/vision-go/pkg/interfaces"
)

// SetupVisionRoutes는 이미지 분석 관련 라우트를 설정합니다
func SetupVisionRoutes(endpoint string, api fiber.Router, services *_interface.ServiceContainer) {
	// 이미 초기화된 서비스 사용
	api.Post(endpoint, controller.AnalyzeImage(services.VisionService))
	api.Get(endpoint, controller.GetAnalyses(services.VisionService))
	api.Get(endpoint+"/:id", controller.GetAnalysis(services.VisionService))
}
