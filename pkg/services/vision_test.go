package service

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_interface "github.com/sh5080/vision-go/pkg/interfaces"
	repository "github.com/sh5080/vision-go/pkg/repositories"
	constants "github.com/sh5080/vision-go/pkg/types"
	model "github.com/sh5080/vision-go/pkg/types/models"
	structure "github.com/sh5080/vision-go/pkg/types/structures"
)

func TestMain(m *testing.M) {
	// 설정 싱글톤이 처음 로드되기 전에 테스트용 환경 변수를 주입
	os.Setenv("PORT", "8080")
	os.Setenv("APP_NAME", "vision-test")
	os.Setenv("AWS_ACCESS_KEY_ID", "test")
	os.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	os.Setenv("AWS_REGION", "ap-northeast-2")
	os.Setenv("OCR_ACQUIRE_TIMEOUT", "500ms")
	os.Exit(m.Run())
}

// fakeEngine은 고정된 결과를 반환하는 테스트용 OCR 엔진입니다
type fakeEngine struct {
	mu  sync.Mutex
	err error
}

func (e *fakeEngine) setErr(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err
}

func (e *fakeEngine) Recognize(imagePath string) (*structure.TextDetection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	return &structure.TextDetection{
		Text: "보르도 2015",
		Words: []structure.OCRWord{
			{Text: "보르도", Confidence: 91.5},
			{Text: "2015", Confidence: 88.2},
		},
	}, nil
}

func (e *fakeEngine) Close() error { return nil }

// fakeInspector는 고정된 품질 분석 결과를 반환합니다
type fakeInspector struct {
	err error
}

func (i *fakeInspector) Inspect(imagePath string) (*structure.ImageProperties, error) {
	if i.err != nil {
		return nil, i.err
	}
	return &structure.ImageProperties{
		Score:  72,
		Width:  1024,
		Height: 768,
		Format: "png",
	}, nil
}

// fakeStorage는 파일 시스템 없이 참조만 발급합니다
type fakeStorage struct{}

func (s *fakeStorage) SaveImage(originalName string, data []byte) (string, error) {
	return uuid.New().String() + ".png", nil
}

func (s *fakeStorage) ResolvePath(imageRef string) string {
	return "/tmp/" + imageRef
}

// recordingNotifier는 전송된 알림을 기록합니다
type recordingNotifier struct {
	mu    sync.Mutex
	calls []model.NotifyMessage
}

func (n *recordingNotifier) Notify(ownerID, jobID string, status model.JobStatus, payload map[string]interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, model.NotifyMessage{
		OwnerID: ownerID,
		JobID:   jobID,
		Status:  status,
		Payload: payload,
	})
	return nil
}

func (n *recordingNotifier) last() (model.NotifyMessage, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.calls) == 0 {
		return model.NotifyMessage{}, false
	}
	return n.calls[len(n.calls)-1], true
}

// pngBytes는 매직 바이트 판별을 통과하는 최소 PNG 바이트입니다
func pngBytes() []byte {
	return append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 8)...)
}

type testDeps struct {
	repo     _interface.JobRepository
	engine   *fakeEngine
	inspect  *fakeInspector
	notifier *recordingNotifier
}

func newTestService(t *testing.T) (*VisionImpl, *testDeps) {
	t.Helper()
	deps := &testDeps{
		repo:     repository.NewJobRepository(),
		engine:   &fakeEngine{},
		inspect:  &fakeInspector{},
		notifier: &recordingNotifier{},
	}

	factory := func() (_interface.OCREngine, error) {
		return deps.engine, nil
	}

	svc := NewVisionService(deps.repo, &fakeStorage{}, deps.inspect, deps.notifier, factory)
	t.Cleanup(svc.Shutdown)
	return svc.(*VisionImpl), deps
}

// seedProcessingJob은 백그라운드 고루틴 없이 processing 상태의 작업을 만듭니다
func seedProcessingJob(t *testing.T, repo _interface.JobRepository, ownerID string) *model.VisionJob {
	t.Helper()
	now := time.Now()
	job := &model.VisionJob{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     "라벨 분석",
		ImageRef:  uuid.New().String() + ".png",
		Status:    model.JobPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.CreateJob(job); err != nil {
		t.Fatalf("작업 생성 실패: %v", err)
	}
	if err := repo.UpdateJobStatus(job.ID, model.JobProcessing, nil, ""); err != nil {
		t.Fatalf("작업 상태 갱신 실패: %v", err)
	}
	return job
}

func TestAnalyzeImageValidation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name    string
		ownerID string
		data    []byte
		wantErr error
	}{
		{"사용자 없음", "", pngBytes(), constants.ErrOwnerRequired},
		{"이미지 없음", "user-1", nil, constants.ErrImageRequired},
		{"크기 초과", "user-1", make([]byte, constants.MaxImageFileSize+1), constants.ErrImageTooLarge},
		{"포맷 불가", "user-1", []byte("텍스트 파일입니다. 이미지 아님."), constants.ErrUnsupportedImageType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AnalyzeImage(tc.ownerID, "제목", "file.png", tc.data)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, 기대값 %v", err, tc.wantErr)
			}
		})
	}
}

func TestAnalyzeImageAcceptsJob(t *testing.T) {
	svc, deps := newTestService(t)

	job, err := svc.AnalyzeImage("user-1", "와인 라벨", "label.png", pngBytes())
	if err != nil {
		t.Fatalf("AnalyzeImage 실패: %v", err)
	}

	if job.ID == "" {
		t.Error("작업 ID가 발급되어야 합니다")
	}
	if job.Status != model.JobProcessing {
		t.Errorf("접수 직후 상태 = %s, 기대값 %s", job.Status, model.JobProcessing)
	}
	if job.ImageRef == "" {
		t.Error("이미지 참조가 발급되어야 합니다")
	}

	stored, err := deps.repo.GetJob(job.ID)
	if err != nil {
		t.Fatalf("작업 조회 실패: %v", err)
	}
	if stored == nil {
		t.Fatal("작업이 저장소에 존재해야 합니다")
	}
}

func TestProcessJobCompletes(t *testing.T) {
	svc, deps := newTestService(t)
	job := seedProcessingJob(t, deps.repo, "user-1")

	svc.processJob(job.ID, job.OwnerID, job.ImageRef)

	stored, err := deps.repo.GetJob(job.ID)
	if err != nil {
		t.Fatalf("작업 조회 실패: %v", err)
	}
	if stored.Status != model.JobCompleted {
		t.Fatalf("상태 = %s, 기대값 %s", stored.Status, model.JobCompleted)
	}
	if stored.Results == nil {
		t.Fatal("완료된 작업에는 결과가 있어야 합니다")
	}
	if stored.Results.TextDetection.Text != "보르도 2015" {
		t.Errorf("추출 텍스트 = %q", stored.Results.TextDetection.Text)
	}
	if stored.Results.ImageProperties.Score != 72 {
		t.Errorf("품질 점수 = %d, 기대값 72", stored.Results.ImageProperties.Score)
	}

	msg, ok := deps.notifier.last()
	if !ok {
		t.Fatal("완료 알림이 전송되어야 합니다")
	}
	if msg.Status != model.JobCompleted || msg.JobID != job.ID {
		t.Errorf("알림 = %+v", msg)
	}

	// 상태 기록 후 워커는 반환되어 있어야 함
	if _, busy := svc.pool.Stats(); busy != 0 {
		t.Errorf("처리 후 busy 워커 수 = %d, 기대값 0", busy)
	}
}

func TestProcessJobOcrFailure(t *testing.T) {
	svc, deps := newTestService(t)
	deps.engine.setErr(errors.New("tesseract 오류"))

	job := seedProcessingJob(t, deps.repo, "user-1")
	svc.processJob(job.ID, job.OwnerID, job.ImageRef)

	stored, _ := deps.repo.GetJob(job.ID)
	if stored.Status != model.JobFailed {
		t.Fatalf("상태 = %s, 기대값 %s", stored.Status, model.JobFailed)
	}
	if stored.Error == "" {
		t.Error("실패한 작업에는 오류 메시지가 있어야 합니다")
	}
	if stored.Results != nil {
		t.Error("실패한 작업에 결과가 있으면 안 됩니다")
	}

	msg, ok := deps.notifier.last()
	if !ok || msg.Status != model.JobFailed {
		t.Error("실패 알림이 전송되어야 합니다")
	}

	// 실패 경로에서도 워커는 반환되어야 함
	deps.engine.setErr(nil)
	second := seedProcessingJob(t, deps.repo, "user-1")
	svc.processJob(second.ID, second.OwnerID, second.ImageRef)

	stored, _ = deps.repo.GetJob(second.ID)
	if stored.Status != model.JobCompleted {
		t.Errorf("두 번째 작업 상태 = %s, 기대값 %s", stored.Status, model.JobCompleted)
	}
}

func TestProcessJobInspectorFailure(t *testing.T) {
	svc, deps := newTestService(t)
	deps.inspect.err = errors.New("디코딩 실패")

	job := seedProcessingJob(t, deps.repo, "user-1")
	svc.processJob(job.ID, job.OwnerID, job.ImageRef)

	stored, _ := deps.repo.GetJob(job.ID)
	if stored.Status != model.JobFailed {
		t.Fatalf("상태 = %s, 기대값 %s", stored.Status, model.JobFailed)
	}
	if _, busy := svc.pool.Stats(); busy != 0 {
		t.Errorf("처리 후 busy 워커 수 = %d, 기대값 0", busy)
	}
}

func TestGetAnalysisOwnership(t *testing.T) {
	svc, deps := newTestService(t)
	job := seedProcessingJob(t, deps.repo, "user-1")

	got, err := svc.GetAnalysis("user-1", job.ID)
	if err != nil || got == nil {
		t.Fatalf("본인 작업 조회 실패: job=%v err=%v", got, err)
	}

	// 다른 사용자의 작업은 존재하지 않는 것처럼 처리
	got, err = svc.GetAnalysis("user-2", job.ID)
	if err != nil {
		t.Fatalf("조회 실패: %v", err)
	}
	if got != nil {
		t.Error("다른 사용자의 작업은 nil로 반환되어야 합니다")
	}

	got, err = svc.GetAnalysis("user-1", "없는-작업")
	if err != nil || got != nil {
		t.Errorf("없는 작업 조회 = (%v, %v), 기대값 (nil, nil)", got, err)
	}
}

func TestGetUserAnalysesPagination(t *testing.T) {
	svc, deps := newTestService(t)

	for i := 0; i < 5; i++ {
		job := &model.VisionJob{
			ID:        fmt.Sprintf("job-%d", i),
			OwnerID:   "user-1",
			Status:    model.JobPending,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		if err := deps.repo.CreateJob(job); err != nil {
			t.Fatalf("작업 생성 실패: %v", err)
		}
	}

	jobs, total, err := svc.GetUserAnalyses("user-1", 2, 0)
	if err != nil {
		t.Fatalf("조회 실패: %v", err)
	}
	if total != 5 || len(jobs) != 2 {
		t.Errorf("total=%d len=%d, 기대값 total=5 len=2", total, len(jobs))
	}
	// 최신순 정렬
	if jobs[0].ID != "job-4" {
		t.Errorf("첫 항목 = %s, 기대값 job-4", jobs[0].ID)
	}

	jobs, total, _ = svc.GetUserAnalyses("user-1", 2, 4)
	if total != 5 || len(jobs) != 1 {
		t.Errorf("offset=4: total=%d len=%d, 기대값 total=5 len=1", total, len(jobs))
	}

	jobs, total, _ = svc.GetUserAnalyses("user-1", 2, 10)
	if total != 5 || len(jobs) != 0 {
		t.Errorf("범위 밖 offset: total=%d len=%d, 기대값 total=5 len=0", total, len(jobs))
	}

	jobs, total, _ = svc.GetUserAnalyses("user-2", 10, 0)
	if total != 0 || len(jobs) != 0 {
		t.Errorf("다른 사용자: total=%d len=%d, 기대값 0", total, len(jobs))
	}
}
