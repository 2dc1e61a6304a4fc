package service

import (
	"github.com/sh5080/vision-go/pkg/configs"
	"github.com/sh5080/vision-go/pkg/db"
	_interface "github.com/sh5080/vision-go/pkg/interfaces"
	repository "github.com/sh5080/vision-go/pkg/repositories"
	"github.com/sh5080/vision-go/pkg/services/internal/inspector"
	"github.com/sh5080/vision-go/pkg/services/internal/ocrpool"
	"github.com/sh5080/vision-go/pkg/services/internal/queue"
	"github.com/sh5080/vision-go/pkg/utils"
)

// NewServiceContainer는 새로운 서비스 컨테이너를 생성합니다
func NewServiceContainer() *_interface.ServiceContainer {
	config := configs.GetConfig()

	// 테이블이 설정된 경우 DynamoDB, 아니면 인메모리 저장소 사용
	var jobRepository _interface.JobRepository
	if config.AWS.Tables.VisionJob != "" {
		dynamoRepo, err := db.NewDynamoJobRepository(config)
		if err != nil {
			utils.Fatal("container", "DynamoDB 저장소 초기화 실패: %v", err)
		}
		if err := dynamoRepo.CreateTableIfNotExists(); err != nil {
			utils.Fatal("container", "작업 테이블 생성 실패: %v", err)
		}
		jobRepository = dynamoRepo
	} else {
		utils.Info("container", "작업 테이블이 설정되지 않아 인메모리 저장소를 사용합니다")
		jobRepository = repository.NewJobRepository()
	}

	imageStorage, err := repository.NewImageStorage(config.Upload.Dir)
	if err != nil {
		utils.Fatal("container", "이미지 저장소 초기화 실패: %v", err)
	}

	inspectorService := inspector.NewInspector()
	notifier := queue.NewSqsNotifier()
	engineFactory := ocrpool.NewEngineFactory(config.OCR.Language)

	visionService := NewVisionService(
		jobRepository,
		imageStorage,
		inspectorService,
		notifier,
		engineFactory,
	)

	return &_interface.ServiceContainer{
		VisionService: visionService,
		Inspector:     inspectorService,
		Notifier:      notifier,
		JobRepository: jobRepository,
		ImageStorage:  imageStorage,
	}
}
