package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/sh5080/vision-go/pkg/configs"
	_interface "github.com/sh5080/vision-go/pkg/interfaces"
	model "github.com/sh5080/vision-go/pkg/types/models"
	"github.com/sh5080/vision-go/pkg/utils"
)

type SQSNotifier struct {
	client   *sqs.Client
	queueUrl string
}

// NewSqsNotifier는 새로운 SQS 알림 서비스를 생성합니다.
// 알림 큐 URL이 설정되지 않은 경우 로그만 남기는 no-op 구현을 반환합니다.
func NewSqsNotifier() _interface.Notifier {
	config := configs.GetConfig()

	if config.AWS.SQS.NotifyQueueURL == "" {
		utils.Info("queue", "알림 큐가 설정되지 않아 로그 알림으로 대체합니다")
		return &LogNotifier{}
	}

	// AWS SDK v2 설정
	cfg := aws.Config{
		Region: config.AWS.Region,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		)),
	}

	return &SQSNotifier{
		client:   sqs.NewFromConfig(cfg),
		queueUrl: config.AWS.SQS.NotifyQueueURL,
	}
}

// Notify는 작업 종료 알림을 SQS 큐에 전송합니다
func (s *SQSNotifier) Notify(ownerID, jobID string, status model.JobStatus, payload map[string]interface{}) error {
	message := model.NotifyMessage{
		OwnerID: ownerID,
		JobID:   jobID,
		Status:  status,
		Payload: payload,
		SentAt:  time.Now(),
	}

	// 메시지를 JSON으로 변환
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("메시지 직렬화 실패: %v", err)
	}

	// SQS에 메시지 전송
	_, err = s.client.SendMessage(context.TODO(), &sqs.SendMessageInput{
		QueueUrl:    &s.queueUrl,
		MessageBody: aws.String(string(body)),
	})

	if err != nil {
		return fmt.Errorf("SQS 메시지 전송 실패: %v", err)
	}

	return nil
}

// LogNotifier는 알림을 로그로만 남기는 구현체입니다 (로컬 개발용)
type LogNotifier struct{}

// Notify는 알림 내용을 로그에 기록합니다
func (n *LogNotifier) Notify(ownerID, jobID string, status model.JobStatus, payload map[string]interface{}) error {
	utils.Info("queue", "작업 알림: owner=%s job=%s status=%s", ownerID, jobID, status)
	return nil
}
