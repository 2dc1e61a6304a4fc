package _interface

import (
	model "github.com/sh5080/vision-go/pkg/types/models"
	structure "github.com/sh5080/vision-go/pkg/types/structures"
)

// VisionService는 이미지 분석 작업의 수명주기를 담당하는 인터페이스입니다
type VisionService interface {
	// AnalyzeImage는 이미지를 검증하고 작업을 접수한 뒤 즉시 반환합니다.
	// 실제 분석은 백그라운드에서 수행됩니다.
	AnalyzeImage(ownerID, title, fileName string, data []byte) (*model.VisionJob, error)

	// GetAnalysis는 소유자 본인의 분석 작업 하나를 조회합니다
	GetAnalysis(ownerID, jobID string) (*model.VisionJob, error)

	// GetUserAnalyses는 소유자의 분석 이력을 최신순으로 조회합니다
	GetUserAnalyses(ownerID string, limit, offset int) ([]*model.VisionJob, int, error)

	// Shutdown은 내부 워커 풀을 정리합니다
	Shutdown()
}

// JobRepository는 분석 작업 레코드의 영속성을 담당하는 인터페이스입니다
type JobRepository interface {
	// CreateJob은 새 작업 레코드를 저장합니다
	CreateJob(job *model.VisionJob) error

	// GetJob은 ID로 작업을 조회합니다 (없으면 nil, nil)
	GetJob(jobID string) (*model.VisionJob, error)

	// GetJobsByOwner는 소유자의 작업을 최신순으로 조회합니다
	GetJobsByOwner(ownerID string) ([]*model.VisionJob, error)

	// UpdateJobStatus는 상태 전이를 원자적으로 기록합니다.
	// 종료 상태(completed, failed)에서의 전이나 순서를 건너뛰는
	// 전이는 거부됩니다.
	UpdateJobStatus(jobID string, status model.JobStatus, results *structure.AnalysisResult, errMsg string) error
}

// ImageStorage는 업로드된 이미지 바이트의 저장을 담당하는 인터페이스입니다
type ImageStorage interface {
	// SaveImage는 이미지 바이트를 저장하고 불투명한 참조를 반환합니다
	SaveImage(originalName string, data []byte) (string, error)

	// ResolvePath는 이미지 참조를 로컬 파일 경로로 변환합니다
	ResolvePath(imageRef string) string
}

// InspectorService는 이미지 메타데이터/품질 검사 인터페이스입니다
type InspectorService interface {
	// Inspect는 이미지 파일의 크기, 포맷, 채널 통계, 품질 점수,
	// 대표 색상을 추출합니다
	Inspect(imagePath string) (*structure.ImageProperties, error)
}

// OCREngine은 풀이 관리하는 OCR 엔진 하나를 나타냅니다
type OCREngine interface {
	// Recognize는 이미지 파일에서 전체 텍스트와 단어별 신뢰도를 추출합니다
	Recognize(imagePath string) (*structure.TextDetection, error)

	// Close는 엔진 리소스를 해제합니다
	Close() error
}

// EngineFactory는 새 OCR 엔진을 생성합니다 (언어 모델 로드 포함, 고비용)
type EngineFactory func() (OCREngine, error)
