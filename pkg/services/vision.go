package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sh5080/vision-go/pkg/configs"
	_interface "github.com/sh5080/vision-go/pkg/interfaces"
	"github.com/sh5080/vision-go/pkg/services/internal/ocrpool"
	constants "github.com/sh5080/vision-go/pkg/types"
	model "github.com/sh5080/vision-go/pkg/types/models"
	structure "github.com/sh5080/vision-go/pkg/types/structures"
	"github.com/sh5080/vision-go/pkg/utils"
)

type VisionImpl struct {
	config    *configs.EnvConfig
	repo      _interface.JobRepository
	storage   _interface.ImageStorage
	inspector _interface.InspectorService
	notifier  _interface.Notifier
	pool      *ocrpool.Pool
}

// NewVisionService는 새 이미지 분석 서비스를 생성합니다.
// OCR 워커 풀은 서비스가 소유하며 Shutdown 시 함께 정리됩니다.
func NewVisionService(
	repo _interface.JobRepository,
	storage _interface.ImageStorage,
	inspector _interface.InspectorService,
	notifier _interface.Notifier,
	factory _interface.EngineFactory,
) _interface.VisionService {
	config := configs.GetConfig()

	pool := ocrpool.NewPool(ocrpool.Config{
		MaxWorkers:     config.OCR.MaxWorkers,
		IdleTimeout:    config.OCR.IdleTimeout,
		SweepInterval:  config.OCR.SweepInterval,
		AcquireTimeout: config.OCR.AcquireTimeout,
		Factory:        factory,
	})

	return &VisionImpl{
		config:    config,
		repo:      repo,
		storage:   storage,
		inspector: inspector,
		notifier:  notifier,
		pool:      pool,
	}
}

// AnalyzeImage는 이미지를 검증하고 분석 작업을 접수합니다.
// 작업은 processing 상태로 반환되며 실제 분석은 백그라운드에서 수행됩니다.
func (s *VisionImpl) AnalyzeImage(ownerID, title, fileName string, data []byte) (*model.VisionJob, error) {
	if ownerID == "" {
		return nil, constants.ErrOwnerRequired
	}
	if len(data) == 0 {
		return nil, constants.ErrImageRequired
	}
	if len(data) > constants.MaxImageFileSize {
		return nil, constants.ErrImageTooLarge
	}

	// 클라이언트가 보낸 Content-Type은 신뢰하지 않고 매직 바이트로 판별
	format := utils.DetectImageFormat(data)
	if !utils.IsAllowedImageFormat(format, constants.AllowedImageFormats) {
		return nil, constants.ErrUnsupportedImageType
	}

	imageRef, err := s.storage.SaveImage(fileName, data)
	if err != nil {
		return nil, fmt.Errorf("이미지 저장 실패: %v", err)
	}

	now := time.Now()
	job := &model.VisionJob{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     title,
		ImageRef:  imageRef,
		Status:    model.JobPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateJob(job); err != nil {
		return nil, fmt.Errorf("작업 생성 실패: %v", err)
	}

	// 접수 즉시 processing으로 전이한 뒤 백그라운드 분석 시작
	if err := s.repo.UpdateJobStatus(job.ID, model.JobProcessing, nil, ""); err != nil {
		return nil, fmt.Errorf("작업 상태 갱신 실패: %v", err)
	}
	job.Status = model.JobProcessing

	go s.processJob(job.ID, job.OwnerID, imageRef)

	return job, nil
}

// processJob은 백그라운드에서 OCR과 이미지 품질 분석을 수행하고
// 작업을 종료 상태로 전이합니다. 워커는 어떤 경로로든 반드시 반환됩니다.
func (s *VisionImpl) processJob(jobID, ownerID, imageRef string) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.JobProcessTimeout)
	defer cancel()

	start := time.Now()
	imagePath := s.storage.ResolvePath(imageRef)

	worker, err := s.pool.Acquire(ctx)
	if err != nil {
		s.failJob(jobID, ownerID, fmt.Sprintf("OCR 워커 확보 실패: %v", err))
		return
	}

	detection, ocrErr := worker.Engine().Recognize(imagePath)

	// 상태 기록보다 먼저 워커를 반환해 다른 작업이 대기하지 않게 합니다
	if err := s.pool.Release(worker); err != nil {
		utils.Error("vision", "워커 반환 실패: %v", err)
	}

	if ocrErr != nil {
		utils.OCRErrorLog("recognize", jobID, ocrErr.Error())
		s.failJob(jobID, ownerID, fmt.Sprintf("텍스트 인식 실패: %v", ocrErr))
		return
	}

	properties, err := s.inspector.Inspect(imagePath)
	if err != nil {
		s.failJob(jobID, ownerID, fmt.Sprintf("이미지 분석 실패: %v", err))
		return
	}

	results := &structure.AnalysisResult{
		TextDetection:   *detection,
		ImageProperties: *properties,
	}

	if err := s.repo.UpdateJobStatus(jobID, model.JobCompleted, results, ""); err != nil {
		utils.Error("vision", "작업 %s 완료 기록 실패: %v", jobID, err)
		utils.RecordError("vision", "status_update")
		return
	}

	utils.RecordOcrProcessingTime(time.Since(start).Seconds())
	utils.RecordJobFinished(string(model.JobCompleted))

	s.notify(ownerID, jobID, model.JobCompleted, map[string]interface{}{
		"score":      properties.Score,
		"textLength": len(detection.Text),
	})
}

// failJob은 작업을 failed로 전이하고 알림을 전송합니다
func (s *VisionImpl) failJob(jobID, ownerID, errMsg string) {
	utils.Error("vision", "작업 %s 실패: %s", jobID, errMsg)
	utils.RecordError("vision", "job_failed")

	if err := s.repo.UpdateJobStatus(jobID, model.JobFailed, nil, errMsg); err != nil {
		utils.Error("vision", "작업 %s 실패 기록 실패: %v", jobID, err)
		return
	}

	utils.RecordJobFinished(string(model.JobFailed))
	s.notify(ownerID, jobID, model.JobFailed, map[string]interface{}{
		"error": errMsg,
	})
}

// notify는 작업 종료 알림을 전송합니다. 실패해도 작업 상태에는 영향이 없습니다.
func (s *VisionImpl) notify(ownerID, jobID string, status model.JobStatus, payload map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ownerID, jobID, status, payload); err != nil {
		utils.Warn("vision", "작업 %s 알림 전송 실패: %v", jobID, err)
		utils.RecordError("queue", "notify")
	}
}

// GetAnalysis는 소유자 본인의 분석 작업 하나를 조회합니다.
// 작업이 없거나 다른 소유자의 작업이면 nil을 반환합니다.
func (s *VisionImpl) GetAnalysis(ownerID, jobID string) (*model.VisionJob, error) {
	if ownerID == "" {
		return nil, constants.ErrOwnerRequired
	}

	job, err := s.repo.GetJob(jobID)
	if err != nil {
		return nil, err
	}
	if job == nil || job.OwnerID != ownerID {
		return nil, nil
	}

	return job, nil
}

// GetUserAnalyses는 소유자의 분석 이력을 최신순으로 페이지네이션해 반환합니다.
// 두 번째 반환값은 전체 작업 수입니다.
func (s *VisionImpl) GetUserAnalyses(ownerID string, limit, offset int) ([]*model.VisionJob, int, error) {
	if ownerID == "" {
		return nil, 0, constants.ErrOwnerRequired
	}

	jobs, err := s.repo.GetJobsByOwner(ownerID)
	if err != nil {
		return nil, 0, err
	}

	total := len(jobs)
	if offset >= total {
		return []*model.VisionJob{}, total, nil
	}

	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	return jobs[offset:end], total, nil
}

// Shutdown은 워커 풀을 정리합니다
func (s *VisionImpl) Shutdown() {
	s.pool.Shutdown()
}
