package model

import (
	"time"

	structure "github.com/sh5080/vision-go/pkg/types/structures"
)

// JobStatus는 분석 작업의 진행 상태입니다
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// IsTerminal은 상태가 종료 상태(completed, failed)인지 확인합니다
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}

// VisionJob은 DynamoDB에 저장될 이미지 분석 작업을 나타냅니다
type VisionJob struct {
	ID        string                    `json:"id" dynamodbav:"ID"` // 프라이머리 키
	OwnerID   string                    `json:"ownerId" dynamodbav:"OwnerID"`
	Title     string                    `json:"title" dynamodbav:"Title"`
	ImageRef  string                    `json:"imageRef" dynamodbav:"ImageRef"` // 저장소가 발급한 이미지 참조
	Status    JobStatus                 `json:"status" dynamodbav:"Status"`
	Results   *structure.AnalysisResult `json:"results,omitempty" dynamodbav:"Results,omitempty"`
	Error     string                    `json:"error,omitempty" dynamodbav:"Error,omitempty"`
	CreatedAt time.Time                 `json:"createdAt" dynamodbav:"CreatedAt"`
	UpdatedAt time.Time                 `json:"updatedAt" dynamodbav:"UpdatedAt"`
}

// NotifyMessage는 작업 종료 시 알림 큐로 전송되는 메시지입니다
type NotifyMessage struct {
	OwnerID string                 `json:"ownerId"`
	JobID   string                 `json:"jobId"`
	Status  JobStatus              `json:"status"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	SentAt  time.Time              `json:"sentAt"`
}
