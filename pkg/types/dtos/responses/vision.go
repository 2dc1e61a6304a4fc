package response

import (
	model "github.com/sh5080/vision-go/pkg/types/models"
)

// Analysis는 단일 분석 작업 조회에 대한 응답입니다.
type Analysis struct {
	Success  bool             `json:"success"`
	Analysis *model.VisionJob `json:"analysis"`
}

// AnalysisCreated는 분석 요청 접수(201)에 대한 응답입니다.
// 결과는 포함되지 않으며 이후 폴링 또는 알림으로 확인합니다.
type AnalysisCreated struct {
	Success  bool            `json:"success"`
	Analysis AnalysisSummary `json:"analysis"`
}

// AnalysisSummary는 접수 직후 반환되는 작업 요약입니다.
type AnalysisSummary struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	ImageRef string          `json:"imageRef"`
	Status   model.JobStatus `json:"status"`
}

// AnalysisList는 사용자별 분석 이력 조회에 대한 응답입니다.
type AnalysisList struct {
	Success      bool               `json:"success"`
	TotalResults int                `json:"totalResults"`
	Page         int                `json:"page"`
	ItemsPerPage int                `json:"itemsPerPage"`
	Analyses     []*model.VisionJob `json:"analyses"`
}
