package db

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sh5080/vision-go/pkg/configs"
	model "github.com/sh5080/vision-go/pkg/types/models"
	structure "github.com/sh5080/vision-go/pkg/types/structures"
)

// DynamoJobRepository는 DynamoDB 기반 작업 저장소 구현체입니다.
type DynamoJobRepository struct {
	client    *dynamodb.Client
	tableName string
	config    *configs.EnvConfig
}

// NewDynamoJobRepository는 새로운 DynamoDB 작업 저장소를 생성합니다.
func NewDynamoJobRepository(config *configs.EnvConfig) (*DynamoJobRepository, error) {
	var cfg aws.Config
	var err error

	// AWS 자격증명이 설정되어 있을 경우 고정 자격증명 사용
	if config.AWS.AccessKeyID != "" && config.AWS.SecretAccessKey != "" {
		creds := credentials.NewStaticCredentialsProvider(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		)

		cfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(config.AWS.Region),
			awsconfig.WithCredentialsProvider(creds),
		)
	} else {
		// 기본 자격증명 프로바이더 체인 사용
		cfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(config.AWS.Region),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("AWS 설정 로드 실패: %v", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if config.AWS.DynamoDBEndpoint != "" {
			o.EndpointResolver = dynamodb.EndpointResolverFromURL(config.AWS.DynamoDBEndpoint)
		}
	})

	return &DynamoJobRepository{
		client:    client,
		tableName: config.AWS.Tables.VisionJob,
		config:    config,
	}, nil
}

// CreateTableIfNotExists는 작업 테이블이 없을 경우 생성합니다.
func (r *DynamoJobRepository) CreateTableIfNotExists() error {
	exists, err := r.tableExists()
	if err != nil {
		return fmt.Errorf("테이블 존재 여부 확인 실패: %v", err)
	}

	if exists {
		return nil
	}

	_, err = r.client.CreateTable(context.TODO(), &dynamodb.CreateTableInput{
		TableName: aws.String(r.tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String("ID"),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String("ID"),
				KeyType:       types.KeyTypeHash,
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})

	if err != nil {
		return fmt.Errorf("테이블 생성 실패: %v", err)
	}

	// 테이블 생성 완료될 때까지 대기
	waiter := dynamodb.NewTableExistsWaiter(r.client)
	err = waiter.Wait(context.TODO(), &dynamodb.DescribeTableInput{
		TableName: aws.String(r.tableName),
	}, 2*time.Minute)

	if err != nil {
		return fmt.Errorf("테이블 생성 완료 대기 실패: %v", err)
	}

	return nil
}

// tableExists는 테이블이 존재하는지 확인합니다.
func (r *DynamoJobRepository) tableExists() (bool, error) {
	_, err := r.client.DescribeTable(context.TODO(), &dynamodb.DescribeTableInput{
		TableName: aws.String(r.tableName),
	})

	if err != nil {
		var notFoundErr *types.ResourceNotFoundException
		if ok := errors.As(err, &notFoundErr); ok {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// CreateJob은 새 작업 레코드를 저장합니다.
func (r *DynamoJobRepository) CreateJob(job *model.VisionJob) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("작업 ID가 비어 있습니다")
	}

	item, err := attributevalue.MarshalMap(job)
	if err != nil {
		return fmt.Errorf("작업 마샬 실패: %v", err)
	}

	_, err = r.client.PutItem(context.TODO(), &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(ID)"),
	})

	if err != nil {
		return fmt.Errorf("작업 저장 실패: %v", err)
	}

	return nil
}

// GetJob은 ID로 작업을 조회합니다.
func (r *DynamoJobRepository) GetJob(jobID string) (*model.VisionJob, error) {
	result, err := r.client.GetItem(context.TODO(), &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"ID": &types.AttributeValueMemberS{Value: jobID},
		},
	})

	if err != nil {
		return nil, fmt.Errorf("작업 조회 실패: %v", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var job model.VisionJob
	err = attributevalue.UnmarshalMap(result.Item, &job)
	if err != nil {
		return nil, fmt.Errorf("작업 언마샬 실패: %v", err)
	}

	return &job, nil
}

// GetJobsByOwner는 소유자의 작업을 최신순으로 조회합니다.
func (r *DynamoJobRepository) GetJobsByOwner(ownerID string) ([]*model.VisionJob, error) {
	result, err := r.client.Scan(context.TODO(), &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("OwnerID = :owner"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: ownerID},
		},
	})

	if err != nil {
		return nil, fmt.Errorf("작업 목록 조회 실패: %v", err)
	}

	var jobs []*model.VisionJob
	err = attributevalue.UnmarshalListOfMaps(result.Items, &jobs)
	if err != nil {
		return nil, fmt.Errorf("작업 목록 언마샬 실패: %v", err)
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	return jobs, nil
}

// UpdateJobStatus는 조건식으로 보호된 상태 전이를 기록합니다.
// 기대하는 이전 상태와 일치할 때만 쓰기가 수행되므로 종료 상태의
// 작업은 변경되지 않습니다.
func (r *DynamoJobRepository) UpdateJobStatus(jobID string, status model.JobStatus, results *structure.AnalysisResult, errMsg string) error {
	var from model.JobStatus
	switch status {
	case model.JobProcessing:
		from = model.JobPending
	case model.JobCompleted, model.JobFailed:
		from = model.JobProcessing
	default:
		return fmt.Errorf("허용되지 않는 대상 상태입니다: %s", status)
	}

	update := map[string]types.AttributeValue{
		":status":    &types.AttributeValueMemberS{Value: string(status)},
		":from":      &types.AttributeValueMemberS{Value: string(from)},
		":updatedAt": &types.AttributeValueMemberS{Value: time.Now().Format(time.RFC3339Nano)},
		":error":     &types.AttributeValueMemberS{Value: errMsg},
	}

	expr := "SET #status = :status, UpdatedAt = :updatedAt, #error = :error"
	if results != nil {
		resultAttr, err := attributevalue.Marshal(results)
		if err != nil {
			return fmt.Errorf("분석 결과 마샬 실패: %v", err)
		}
		update[":results"] = resultAttr
		expr += ", Results = :results"
	}

	_, err := r.client.UpdateItem(context.TODO(), &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"ID": &types.AttributeValueMemberS{Value: jobID},
		},
		UpdateExpression:    aws.String(expr),
		ConditionExpression: aws.String("#status = :from"),
		ExpressionAttributeNames: map[string]string{
			"#status": "Status",
			"#error":  "Error",
		},
		ExpressionAttributeValues: update,
	})

	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("허용되지 않는 상태 전이입니다: → %s", status)
		}
		return fmt.Errorf("작업 상태 갱신 실패: %v", err)
	}

	return nil
}
