package _interface

import model "github.com/sh5080/vision-go/pkg/types/models"

// Notifier는 작업 종료 알림을 외부 구독자에게 전달하는 인터페이스입니다.
// 전송 실패는 호출자가 로깅만 하며 작업 상태에는 영향을 주지 않습니다.
type Notifier interface {
	// Notify는 작업의 최종 상태를 소유자 앞으로 전송합니다
	Notify(ownerID, jobID string, status model.JobStatus, payload map[string]interface{}) error
}
