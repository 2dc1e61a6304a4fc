package ocrpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	_interface "github.com/sh5080/vision-go/pkg/interfaces"
	constants "github.com/sh5080/vision-go/pkg/types"
	"github.com/sh5080/vision-go/pkg/utils"
)

var (
	// ErrAcquireTimeout은 제한 시간 내에 워커를 확보하지 못했을 때 반환됩니다
	ErrAcquireTimeout = errors.New("사용 가능한 OCR 워커가 없습니다 (타임아웃)")

	// ErrPoolClosed는 종료된 풀에 대한 요청에 반환됩니다
	ErrPoolClosed = errors.New("OCR 워커 풀이 종료되었습니다")
)

// Worker는 풀이 관리하는 OCR 엔진 인스턴스 하나입니다.
// busy 상태의 워커는 정확히 한 호출자만 보유합니다.
type Worker struct {
	id       int
	engine   _interface.OCREngine
	busy     bool
	lastUsed time.Time
}

// Engine은 워커가 감싸고 있는 OCR 엔진을 반환합니다
func (w *Worker) Engine() _interface.OCREngine {
	return w.engine
}

// Config는 워커 풀 설정입니다. 0 값은 기본값으로 대체됩니다.
type Config struct {
	MaxWorkers     int
	IdleTimeout    time.Duration
	SweepInterval  time.Duration
	AcquireTimeout time.Duration
	Factory        _interface.EngineFactory
}

// Pool은 OCR 엔진 워커의 유한 풀입니다.
// 엔진 생성은 언어 모델 로드를 포함해 비용이 크므로 워커는 재사용되고,
// 일정 시간 유휴 상태인 워커는 주기적으로 정리됩니다.
type Pool struct {
	factory        _interface.EngineFactory
	maxWorkers     int
	idleTimeout    time.Duration
	acquireTimeout time.Duration

	// mu는 워커 레지스트리(workers, created, busy 플래그)를 보호합니다
	mu      sync.Mutex
	workers map[int]*Worker
	created int
	nextID  int
	closed  bool

	// idle은 유휴 워커의 전달 채널입니다. 용량이 maxWorkers와 같아
	// Release가 블로킹되지 않으며, 대기 중인 Acquire 하나가 정확히
	// 깨어납니다.
	idle chan *Worker

	stop     chan struct{}
	stopOnce sync.Once
}

// NewPool은 새 워커 풀을 생성하고 유휴 정리 루프를 시작합니다
func NewPool(cfg Config) *Pool {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = constants.DefaultMaxWorkers
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = constants.DefaultWorkerIdleTimeout
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = constants.DefaultSweepInterval
	}
	if cfg.AcquireTimeout <= 0 {
		cfg.AcquireTimeout = constants.DefaultAcquireTimeout
	}

	p := &Pool{
		factory:        cfg.Factory,
		maxWorkers:     cfg.MaxWorkers,
		idleTimeout:    cfg.IdleTimeout,
		acquireTimeout: cfg.AcquireTimeout,
		workers:        make(map[int]*Worker),
		idle:           make(chan *Worker, cfg.MaxWorkers),
		stop:           make(chan struct{}),
	}

	go p.sweepLoop(cfg.SweepInterval)

	return p
}

// Acquire는 유휴 워커를 반환하거나, 여유가 있으면 새 워커를 생성하고,
// 둘 다 불가능하면 Release가 깨워줄 때까지 대기합니다.
// 대기는 acquireTimeout 또는 컨텍스트 취소로 끝납니다.
func (p *Pool) Acquire(ctx context.Context) (*Worker, error) {
	// 유휴 워커가 있으면 즉시 사용
	select {
	case w := <-p.idle:
		p.claim(w)
		return w, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}

	// 정원 미달이면 새 워커 생성. 자리를 먼저 예약해 |workers| <= max를
	// 유지하고, 비용이 큰 엔진 초기화는 잠금 밖에서 수행합니다.
	if p.created < p.maxWorkers {
		p.created++
		id := p.nextID
		p.nextID++
		p.mu.Unlock()

		engine, err := p.factory()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, fmt.Errorf("OCR 워커 생성 실패: %w", err)
		}

		w := &Worker{id: id, engine: engine, busy: true, lastUsed: time.Now()}
		p.mu.Lock()
		p.workers[id] = w
		p.mu.Unlock()
		p.publishMetrics()
		return w, nil
	}
	p.mu.Unlock()

	// 정원이 가득 참: Release를 대기
	timer := time.NewTimer(p.acquireTimeout)
	defer timer.Stop()

	select {
	case w := <-p.idle:
		p.claim(w)
		return w, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrAcquireTimeout
	}
}

// claim은 idle 채널에서 꺼낸 워커를 busy로 표시합니다
func (p *Pool) claim(w *Worker) {
	p.mu.Lock()
	w.busy = true
	p.mu.Unlock()
	p.publishMetrics()
}

// Release는 워커를 유휴 상태로 되돌리고 대기자 하나를 깨웁니다.
// 보유 중이 아닌 워커를 반환하면 에러를 반환합니다 (프로그래밍 오류).
func (p *Pool) Release(w *Worker) error {
	if w == nil {
		return fmt.Errorf("nil 워커를 반환했습니다")
	}

	p.mu.Lock()
	registered, ok := p.workers[w.id]
	if !ok || registered != w || !w.busy {
		p.mu.Unlock()
		return fmt.Errorf("보유 중이 아닌 워커를 반환했습니다: %d", w.id)
	}
	w.busy = false
	w.lastUsed = time.Now()
	closed := p.closed
	p.mu.Unlock()

	if closed {
		p.teardown(w)
		return nil
	}

	// 채널 용량 == maxWorkers이므로 블로킹되지 않습니다
	p.idle <- w
	p.publishMetrics()
	return nil
}

// Sweep은 idleTimeout을 초과해 유휴 상태인 워커를 정리합니다.
// busy 워커는 건드리지 않으며 엔진 해제는 레지스트리 잠금 밖에서
// 수행되어 다른 Acquire/Release를 막지 않습니다.
func (p *Pool) Sweep() {
	now := time.Now()
	var stale, fresh []*Worker

drain:
	for {
		select {
		case w := <-p.idle:
			if now.Sub(w.lastUsed) > p.idleTimeout {
				stale = append(stale, w)
			} else {
				fresh = append(fresh, w)
			}
		default:
			break drain
		}
	}

	// 아직 유효한 워커는 다시 채널에 넣습니다
	for _, w := range fresh {
		p.idle <- w
	}

	if len(stale) == 0 {
		return
	}

	p.mu.Lock()
	for _, w := range stale {
		delete(p.workers, w.id)
		p.created--
	}
	p.mu.Unlock()

	for _, w := range stale {
		if err := w.engine.Close(); err != nil {
			utils.Warn("ocr_pool", "워커 %d 엔진 해제 실패: %v", w.id, err)
		}
	}

	utils.Debug("ocr_pool", "유휴 워커 %d개 정리", len(stale))
	p.publishMetrics()
}

// Shutdown은 정리 루프를 멈추고 유휴 워커의 엔진을 해제합니다.
// busy 워커는 Release 시점에 해제됩니다.
func (p *Pool) Shutdown() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})

	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	for {
		select {
		case w := <-p.idle:
			p.teardown(w)
		default:
			return
		}
	}
}

// teardown은 워커를 레지스트리에서 제거하고 엔진을 해제합니다
func (p *Pool) teardown(w *Worker) {
	p.mu.Lock()
	delete(p.workers, w.id)
	p.created--
	p.mu.Unlock()

	if err := w.engine.Close(); err != nil {
		utils.Warn("ocr_pool", "워커 %d 엔진 해제 실패: %v", w.id, err)
	}
}

// Stats는 현재 워커 수와 busy 워커 수를 반환합니다
func (p *Pool) Stats() (size int, busy int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, w := range p.workers {
		size++
		if w.busy {
			busy++
		}
	}
	return size, busy
}

// sweepLoop는 고정 주기로 Sweep을 실행합니다
func (p *Pool) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.Sweep()
		case <-p.stop:
			return
		}
	}
}

func (p *Pool) publishMetrics() {
	size, busy := p.Stats()
	utils.UpdatePoolWorkers(size-busy, busy)
}
