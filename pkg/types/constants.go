package constants

import (
	"errors"
	"time"
)

// 업로드 이미지 최대 크기 (5MB)
const MaxImageFileSize = 5 * 1024 * 1024

// 허용되는 이미지 포맷 (매직 바이트 기준으로 판별된 값)
var AllowedImageFormats = []string{"jpeg", "png", "webp"}

// OCR 워커 풀 기본값
const (
	DefaultMaxWorkers        = 3
	DefaultWorkerIdleTimeout = 5 * time.Minute
	DefaultSweepInterval     = 10 * time.Minute
	DefaultAcquireTimeout    = 30 * time.Second
)

// 이미지 분석 기본값
const (
	// 대표 색상 추출 시 축소할 팔레트 크기 (50x50)
	PaletteSize = 50

	// 결과에 포함할 대표 색상 개수
	DominantColorCount = 5

	// 품질 점수 계산 기준 해상도 (4096 x 4096)
	MaxResolution = 4096 * 4096

	// 백그라운드 분석 전체 제한 시간
	JobProcessTimeout = 2 * time.Minute
)

// 제출 시점에 동기적으로 반환되는 검증 오류
var (
	ErrImageRequired        = errors.New("이미지가 없습니다")
	ErrImageTooLarge        = errors.New("이미지가 너무 큽니다 (최대 5MB)")
	ErrUnsupportedImageType = errors.New("지원하지 않는 이미지 형식입니다")
	ErrOwnerRequired        = errors.New("사용자 식별자가 없습니다")
)
