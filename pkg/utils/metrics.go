package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// 직접 등록할 수 있도록 메트릭을 promauto 대신 일반 prometheus로 선언
var (
	// RequestCounter는 총 요청 수를 추적합니다
	RequestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vision_http_requests_total",
		Help: "총 HTTP 요청 수",
	}, []string{"method", "path", "status"})

	// ResponseTime은 응답 시간을 측정합니다
	ResponseTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vision_http_response_time_seconds",
		Help:    "HTTP 요청 응답 시간(초)",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "path", "status"})

	// OcrProcessingTime은 OCR 처리 시간을 측정합니다
	OcrProcessingTime = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "vision_ocr_processing_time_seconds",
		Help:    "OCR 처리 시간(초)",
		Buckets: []float64{0.1, 0.5, 1, 2, 3, 4, 5, 7.5, 10, 15, 20, 30},
	})

	// JobCounter는 종료된 분석 작업 수를 상태별로 추적합니다
	JobCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vision_jobs_total",
		Help: "종료된 분석 작업 수",
	}, []string{"status"})

	// PoolWorkers는 OCR 워커 풀의 현재 워커 수를 상태별로 추적합니다
	PoolWorkers = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vision_ocr_pool_workers",
		Help: "OCR 워커 풀 워커 수",
	}, []string{"state"})

	// ErrorCounter는 오류 발생 수를 추적합니다
	ErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vision_error_total",
		Help: "오류 발생 수",
	}, []string{"service", "type"})

	// ServerMetric은 서버 부하/건강 상태 게이지입니다
	ServerMetric = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vision_server_status",
		Help: "서버 상태 게이지 (load, healthy, capacity)",
	}, []string{"server", "metric"})
)

// InitMetrics는 모든 메트릭을 등록합니다
func InitMetrics() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(ResponseTime)
	prometheus.MustRegister(OcrProcessingTime)
	prometheus.MustRegister(JobCounter)
	prometheus.MustRegister(PoolWorkers)
	prometheus.MustRegister(ErrorCounter)
	prometheus.MustRegister(ServerMetric)
}

// RecordRequest는 HTTP 요청 메트릭을 기록합니다
func RecordRequest(method, path string, status int, duration float64) {
	statusLabel := httpStatusLabel(status)
	RequestCounter.WithLabelValues(method, path, statusLabel).Inc()
	ResponseTime.WithLabelValues(method, path, statusLabel).Observe(duration)
}

func httpStatusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// RecordError는 오류 발생을 기록합니다
func RecordError(service string, errorType string) {
	ErrorCounter.WithLabelValues(service, errorType).Inc()
}

// RecordOcrProcessingTime은 OCR 처리 시간을 기록합니다
func RecordOcrProcessingTime(duration float64) {
	OcrProcessingTime.Observe(duration)
}

// RecordJobFinished는 종료된 작업을 상태별로 기록합니다
func RecordJobFinished(status string) {
	JobCounter.WithLabelValues(status).Inc()
}

// UpdatePoolWorkers는 워커 풀 게이지를 갱신합니다
func UpdatePoolWorkers(idle, busy int) {
	PoolWorkers.WithLabelValues("idle").Set(float64(idle))
	PoolWorkers.WithLabelValues("busy").Set(float64(busy))
}

// UpdateServerMetric은 서버 상태 게이지를 갱신합니다
func UpdateServerMetric(serverName, metric string, value float64) {
	ServerMetric.WithLabelValues(serverName, metric).Set(value)
}

// GetSystemMetrics는 현재 CPU/메모리 사용률(0~1)을 반환합니다
func GetSystemMetrics() (float64, float64) {
	var cpuUsage, memoryUsage float64

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		cpuUsage = percents[0] / 100.0
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		memoryUsage = vm.UsedPercent / 100.0
	}

	return cpuUsage, memoryUsage
}
