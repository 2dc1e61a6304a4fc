package ocrpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	_interface "github.com/sh5080/vision-go/pkg/interfaces"
	structure "github.com/sh5080/vision-go/pkg/types/structures"
)

// fakeEngine은 테스트용 OCR 엔진입니다
type fakeEngine struct {
	mu     sync.Mutex
	closed bool
}

func (e *fakeEngine) Recognize(imagePath string) (*structure.TextDetection, error) {
	return &structure.TextDetection{Text: "테스트"}, nil
}

func (e *fakeEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func (e *fakeEngine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// countingFactory는 생성 횟수를 세는 엔진 팩토리를 반환합니다
func countingFactory(created *int32) _interface.EngineFactory {
	return func() (_interface.OCREngine, error) {
		atomic.AddInt32(created, 1)
		return &fakeEngine{}, nil
	}
}

func newTestPool(t *testing.T, maxWorkers int, created *int32) *Pool {
	t.Helper()
	p := NewPool(Config{
		MaxWorkers:     maxWorkers,
		AcquireTimeout: 100 * time.Millisecond,
		Factory:        countingFactory(created),
	})
	t.Cleanup(p.Shutdown)
	return p
}

func TestAcquireCreatesUpToMax(t *testing.T) {
	var created int32
	p := newTestPool(t, 2, &created)

	w1, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("첫 번째 Acquire 실패: %v", err)
	}
	w2, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("두 번째 Acquire 실패: %v", err)
	}
	if w1 == w2 {
		t.Fatal("서로 다른 워커가 반환되어야 합니다")
	}
	if got := atomic.LoadInt32(&created); got != 2 {
		t.Errorf("워커 생성 횟수 = %d, 기대값 2", got)
	}

	// 정원이 가득 찬 상태에서는 타임아웃
	if _, err := p.Acquire(context.Background()); !errors.Is(err, ErrAcquireTimeout) {
		t.Errorf("타임아웃 에러를 기대했지만 %v", err)
	}
}

func TestAcquireReusesIdleWorker(t *testing.T) {
	var created int32
	p := newTestPool(t, 3, &created)

	w1, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire 실패: %v", err)
	}
	if err := p.Release(w1); err != nil {
		t.Fatalf("Release 실패: %v", err)
	}

	w2, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("재획득 실패: %v", err)
	}
	if w1 != w2 {
		t.Error("유휴 워커가 재사용되어야 합니다")
	}
	if got := atomic.LoadInt32(&created); got != 1 {
		t.Errorf("워커 생성 횟수 = %d, 기대값 1", got)
	}
}

func TestReleaseWakesWaiter(t *testing.T) {
	var created int32
	p := NewPool(Config{
		MaxWorkers:     1,
		AcquireTimeout: 2 * time.Second,
		Factory:        countingFactory(&created),
	})
	t.Cleanup(p.Shutdown)

	w, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire 실패: %v", err)
	}

	got := make(chan *Worker, 1)
	errCh := make(chan error, 1)
	go func() {
		waited, err := p.Acquire(context.Background())
		if err != nil {
			errCh <- err
			return
		}
		got <- waited
	}()

	// 대기자가 블로킹 상태에 들어갈 시간을 줌
	time.Sleep(50 * time.Millisecond)
	if err := p.Release(w); err != nil {
		t.Fatalf("Release 실패: %v", err)
	}

	select {
	case waited := <-got:
		if waited != w {
			t.Error("반환된 워커가 대기자에게 전달되어야 합니다")
		}
	case err := <-errCh:
		t.Fatalf("대기 중인 Acquire 실패: %v", err)
	case <-time.After(time.Second):
		t.Fatal("Release 후에도 대기자가 깨어나지 않았습니다")
	}
}

func TestAcquireContextCancel(t *testing.T) {
	var created int32
	p := NewPool(Config{
		MaxWorkers:     1,
		AcquireTimeout: 5 * time.Second,
		Factory:        countingFactory(&created),
	})
	t.Cleanup(p.Shutdown)

	if _, err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire 실패: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	if _, err := p.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("컨텍스트 취소 에러를 기대했지만 %v", err)
	}
}

func TestDoubleReleaseFails(t *testing.T) {
	var created int32
	p := newTestPool(t, 1, &created)

	w, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire 실패: %v", err)
	}
	if err := p.Release(w); err != nil {
		t.Fatalf("첫 번째 Release 실패: %v", err)
	}
	if err := p.Release(w); err == nil {
		t.Error("두 번째 Release는 에러를 반환해야 합니다")
	}
}

func TestReleaseUnknownWorkerFails(t *testing.T) {
	var created int32
	p := newTestPool(t, 1, &created)

	if err := p.Release(nil); err == nil {
		t.Error("nil 워커 반환은 에러를 반환해야 합니다")
	}
	if err := p.Release(&Worker{id: 99, busy: true}); err == nil {
		t.Error("풀에 등록되지 않은 워커 반환은 에러를 반환해야 합니다")
	}
}

func TestSweepEvictsStaleOnly(t *testing.T) {
	var created int32
	p := NewPool(Config{
		MaxWorkers:     2,
		IdleTimeout:    5 * time.Minute,
		AcquireTimeout: 100 * time.Millisecond,
		Factory:        countingFactory(&created),
	})
	t.Cleanup(p.Shutdown)

	w1, _ := p.Acquire(context.Background())
	w2, _ := p.Acquire(context.Background())
	stale := w1.engine.(*fakeEngine)
	fresh := w2.engine.(*fakeEngine)

	p.Release(w1)
	p.Release(w2)

	// w1만 유휴 시간 초과 상태로 만듦
	p.mu.Lock()
	w1.lastUsed = time.Now().Add(-10 * time.Minute)
	p.mu.Unlock()

	p.Sweep()

	if size, _ := p.Stats(); size != 1 {
		t.Errorf("정리 후 워커 수 = %d, 기대값 1", size)
	}
	if !stale.isClosed() {
		t.Error("유휴 시간 초과 워커의 엔진이 해제되어야 합니다")
	}
	if fresh.isClosed() {
		t.Error("아직 유효한 워커의 엔진은 해제되면 안 됩니다")
	}

	// 남은 워커는 계속 사용 가능해야 함
	w, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("정리 후 Acquire 실패: %v", err)
	}
	if w != w2 {
		t.Error("정리 후 남은 워커가 재사용되어야 합니다")
	}
}

func TestFactoryErrorReleasesSlot(t *testing.T) {
	var calls int32
	factory := func() (_interface.OCREngine, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("tesseract 초기화 실패")
		}
		return &fakeEngine{}, nil
	}

	p := NewPool(Config{
		MaxWorkers:     1,
		AcquireTimeout: 100 * time.Millisecond,
		Factory:        factory,
	})
	t.Cleanup(p.Shutdown)

	if _, err := p.Acquire(context.Background()); err == nil {
		t.Fatal("팩토리 실패 시 Acquire는 에러를 반환해야 합니다")
	}

	// 실패한 생성 시도가 자리를 점유하면 안 됨
	w, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("재시도 Acquire 실패: %v", err)
	}
	if w == nil {
		t.Fatal("워커가 반환되어야 합니다")
	}
}

func TestShutdownClosesIdleEngines(t *testing.T) {
	var created int32
	p := NewPool(Config{
		MaxWorkers:     2,
		AcquireTimeout: 100 * time.Millisecond,
		Factory:        countingFactory(&created),
	})

	w, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire 실패: %v", err)
	}
	engine := w.engine.(*fakeEngine)
	p.Release(w)

	p.Shutdown()

	if !engine.isClosed() {
		t.Error("Shutdown 시 유휴 워커의 엔진이 해제되어야 합니다")
	}
	if _, err := p.Acquire(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("종료된 풀의 Acquire는 ErrPoolClosed를 반환해야 합니다: %v", err)
	}
}

func TestConcurrentAcquireRespectsBound(t *testing.T) {
	var created int32
	p := NewPool(Config{
		MaxWorkers:     3,
		AcquireTimeout: 2 * time.Second,
		Factory:        countingFactory(&created),
	})
	t.Cleanup(p.Shutdown)

	var active, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w, err := p.Acquire(context.Background())
			if err != nil {
				t.Errorf("Acquire 실패: %v", err)
				return
			}

			n := atomic.AddInt32(&active, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&active, -1)

			if err := p.Release(w); err != nil {
				t.Errorf("Release 실패: %v", err)
			}
		}()
	}
	wg.Wait()

	if peak > 3 {
		t.Errorf("동시 사용 워커 수 최대값 = %d, 상한 3을 초과했습니다", peak)
	}
	if created > 3 {
		t.Errorf("워커 생성 횟수 = %d, 상한 3을 초과했습니다", created)
	}
}
