package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_interface "github.com/sh5080/vision-go/pkg/interfaces"
)

// LocalImageStorage는 업로드 디렉터리에 이미지를 저장하는 구현체입니다
type LocalImageStorage struct {
	dir string
}

// NewImageStorage는 새 로컬 이미지 저장소를 생성합니다.
// 업로드 디렉터리가 없으면 생성합니다.
func NewImageStorage(dir string) (_interface.ImageStorage, error) {
	if dir == "" {
		dir = "./uploads"
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("업로드 디렉터리 생성 실패: %v", err)
	}

	return &LocalImageStorage{dir: dir}, nil
}

// SaveImage는 이미지 바이트를 저장하고 파일명 형태의 참조를 반환합니다.
// 파일명은 uuid + 원본 확장자로 구성됩니다.
func (s *LocalImageStorage) SaveImage(originalName string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("이미지 데이터가 비어 있습니다")
	}

	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = ".jpg"
	}

	imageRef := uuid.New().String() + ext
	path := filepath.Join(s.dir, imageRef)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("이미지 저장 실패: %v", err)
	}

	return imageRef, nil
}

// ResolvePath는 이미지 참조를 로컬 파일 경로로 변환합니다
func (s *LocalImageStorage) ResolvePath(imageRef string) string {
	return filepath.Join(s.dir, imageRef)
}
