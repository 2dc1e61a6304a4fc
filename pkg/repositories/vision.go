package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	_interface "github.com/sh5080/vision-go/pkg/interfaces"
	model "github.com/sh5080/vision-go/pkg/types/models"
	structure "github.com/sh5080/vision-go/pkg/types/structures"
)

// InMemoryJobRepository는 인메모리 작업 저장소 구현체입니다.
// DynamoDB가 설정되지 않은 환경과 테스트에서 사용됩니다.
type InMemoryJobRepository struct {
	jobs     map[string]*model.VisionJob
	jobsLock sync.RWMutex
}

// NewJobRepository는 새 인메모리 작업 저장소를 생성합니다
func NewJobRepository() _interface.JobRepository {
	return &InMemoryJobRepository{
		jobs: make(map[string]*model.VisionJob),
	}
}

// CreateJob은 새 작업 레코드를 저장합니다
func (db *InMemoryJobRepository) CreateJob(job *model.VisionJob) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("작업 ID가 비어 있습니다")
	}

	db.jobsLock.Lock()
	defer db.jobsLock.Unlock()

	if _, exists := db.jobs[job.ID]; exists {
		return fmt.Errorf("이미 존재하는 작업입니다: %s", job.ID)
	}

	stored := *job
	db.jobs[job.ID] = &stored
	return nil
}

// GetJob은 ID로 작업을 조회합니다
func (db *InMemoryJobRepository) GetJob(jobID string) (*model.VisionJob, error) {
	if jobID == "" {
		return nil, fmt.Errorf("작업 ID가 비어 있습니다")
	}

	db.jobsLock.RLock()
	defer db.jobsLock.RUnlock()

	job, exists := db.jobs[jobID]
	if !exists {
		return nil, nil // 없음 (에러 아님)
	}

	snapshot := *job
	return &snapshot, nil
}

// GetJobsByOwner는 소유자의 작업을 최신순으로 조회합니다
func (db *InMemoryJobRepository) GetJobsByOwner(ownerID string) ([]*model.VisionJob, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("사용자 ID가 비어 있습니다")
	}

	db.jobsLock.RLock()
	defer db.jobsLock.RUnlock()

	var jobs []*model.VisionJob
	for _, job := range db.jobs {
		if job.OwnerID == ownerID {
			snapshot := *job
			jobs = append(jobs, &snapshot)
		}
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	return jobs, nil
}

// UpdateJobStatus는 상태 전이를 원자적으로 기록합니다.
// 허용되는 전이는 pending→processing, processing→completed|failed 뿐이며
// 종료 상태에 도달한 작업은 변경할 수 없습니다.
func (db *InMemoryJobRepository) UpdateJobStatus(jobID string, status model.JobStatus, results *structure.AnalysisResult, errMsg string) error {
	db.jobsLock.Lock()
	defer db.jobsLock.Unlock()

	job, exists := db.jobs[jobID]
	if !exists {
		return fmt.Errorf("작업을 찾을 수 없습니다: %s", jobID)
	}

	if !isValidTransition(job.Status, status) {
		return fmt.Errorf("허용되지 않는 상태 전이입니다: %s → %s", job.Status, status)
	}

	job.Status = status
	job.Results = results
	job.Error = errMsg
	job.UpdatedAt = time.Now()
	return nil
}

// isValidTransition은 상태 전이가 허용되는지 확인합니다
func isValidTransition(from, to model.JobStatus) bool {
	switch from {
	case model.JobPending:
		return to == model.JobProcessing
	case model.JobProcessing:
		return to == model.JobCompleted || to == model.JobFailed
	default:
		return false
	}
}
