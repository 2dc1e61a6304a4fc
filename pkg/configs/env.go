package configs

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// 앱 버전을 저장하는 전역 변수
var AppVersion string

type EnvConfig struct {
	Server struct {
		Port    string `mapstructure:"PORT"`
		AppName string `mapstructure:"APP_NAME"`
	}
	AWS struct {
		AccessKeyID      string `mapstructure:"AWS_ACCESS_KEY_ID"`
		SecretAccessKey  string `mapstructure:"AWS_SECRET_ACCESS_KEY"`
		Region           string `mapstructure:"AWS_REGION"`
		DynamoDBEndpoint string `mapstructure:"AWS_DYNAMODB_ENDPOINT"`
		Tables           struct {
			VisionJob string `mapstructure:"AWS_DYNAMODB_TABLE_VISION_JOB"`
		}
		SQS struct {
			NotifyQueueURL string `mapstructure:"AWS_SQS_NOTIFY_QUEUE_URL"`
		}
	}
	OCR struct {
		Language       string `mapstructure:"OCR_LANGUAGE"`
		TempDir        string `mapstructure:"OCR_TEMP_DIR"`
		MaxWorkers     int
		IdleTimeout    time.Duration
		SweepInterval  time.Duration
		AcquireTimeout time.Duration
	}
	Upload struct {
		Dir string `mapstructure:"UPLOAD_DIR"`
	}
}

var (
	configInstance *EnvConfig
	once           sync.Once
)

// init 함수에서 VERSION 환경 변수 로드
func init() {
	// Makefile 또는 환경에서 설정된 VERSION 환경 변수 사용
	AppVersion = os.Getenv("VERSION")
	if AppVersion == "" {
		AppVersion = "dev" // 기본값 설정
	}

	// 개발 환경일 경우 항상 "dev"로 설정
	if os.Getenv("APP_ENV") == "dev" {
		AppVersion = "dev"
	}
}

// loadConfig는 환경 변수를 로드하고 검증하는 내부 함수
func loadConfig() *EnvConfig {
	viper.SetConfigFile(".env")
	viper.ReadInConfig()
	viper.AutomaticEnv()

	// 필수 환경 변수 확인
	requiredEnvVars := []string{
		"PORT",
		"APP_NAME",
		"AWS_ACCESS_KEY_ID",
		"AWS_SECRET_ACCESS_KEY",
		"AWS_REGION",
	}

	missingVars := []string{}
	for _, envVar := range requiredEnvVars {
		if !viper.IsSet(envVar) {
			missingVars = append(missingVars, envVar)
		}
	}

	if len(missingVars) > 0 {
		log.Fatalf("필수 환경 변수가 설정되지 않았습니다: %s", strings.Join(missingVars, ", "))
	}

	// 기본값 설정
	viper.SetDefault("OCR_LANGUAGE", "fra+eng")
	viper.SetDefault("OCR_TEMP_DIR", "/tmp")
	viper.SetDefault("OCR_MAX_WORKERS", 3)
	viper.SetDefault("OCR_IDLE_TIMEOUT", "5m")
	viper.SetDefault("OCR_SWEEP_INTERVAL", "10m")
	viper.SetDefault("OCR_ACQUIRE_TIMEOUT", "30s")
	viper.SetDefault("UPLOAD_DIR", "./uploads")

	// 환경 변수 키-구조체 필드 매핑 정의
	config := &EnvConfig{}
	envMapping := map[string]*string{
		"PORT":                          &config.Server.Port,
		"APP_NAME":                      &config.Server.AppName,
		"AWS_ACCESS_KEY_ID":             &config.AWS.AccessKeyID,
		"AWS_SECRET_ACCESS_KEY":         &config.AWS.SecretAccessKey,
		"AWS_REGION":                    &config.AWS.Region,
		"AWS_DYNAMODB_ENDPOINT":         &config.AWS.DynamoDBEndpoint,
		"AWS_DYNAMODB_TABLE_VISION_JOB": &config.AWS.Tables.VisionJob,
		"AWS_SQS_NOTIFY_QUEUE_URL":      &config.AWS.SQS.NotifyQueueURL,
		"OCR_LANGUAGE":                  &config.OCR.Language,
		"OCR_TEMP_DIR":                  &config.OCR.TempDir,
		"UPLOAD_DIR":                    &config.Upload.Dir,
	}

	// 필드에 환경 변수 값 매핑 - 문자열 필드
	for key, field := range envMapping {
		*field = viper.GetString(key)
	}

	// 숫자/기간 필드 매핑
	config.OCR.MaxWorkers = viper.GetInt("OCR_MAX_WORKERS")
	config.OCR.IdleTimeout = viper.GetDuration("OCR_IDLE_TIMEOUT")
	config.OCR.SweepInterval = viper.GetDuration("OCR_SWEEP_INTERVAL")
	config.OCR.AcquireTimeout = viper.GetDuration("OCR_ACQUIRE_TIMEOUT")

	if config.OCR.MaxWorkers <= 0 {
		log.Fatalf("OCR_MAX_WORKERS는 1 이상이어야 합니다: %d", config.OCR.MaxWorkers)
	}

	return config
}

// GetConfig는 EnvConfig의 싱글톤 인스턴스를 반환합니다.
// 처음 호출 시에만 환경 변수를 로드하고 이후 호출에서는 캐시된 인스턴스를 반환합니다.
func GetConfig() *EnvConfig {
	once.Do(func() {
		configInstance = loadConfig()
		fmt.Printf("환경 변수 로드 완료 (앱 버전: %s)\n", AppVersion)
	})
	return configInstance
}
