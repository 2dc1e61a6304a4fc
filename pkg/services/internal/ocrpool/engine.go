package ocrpool

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	_interface "github.com/sh5080/vision-go/pkg/interfaces"
	structure "github.com/sh5080/vision-go/pkg/types/structures"
)

// tesseractEngine은 gosseract 클라이언트를 감싼 OCR 엔진입니다
type tesseractEngine struct {
	client *gosseract.Client
}

// NewEngineFactory는 지정된 언어 모델을 로드하는 엔진 팩토리를 반환합니다.
// 언어는 "fra+eng"처럼 +로 연결해 여러 개를 지정할 수 있습니다.
func NewEngineFactory(language string) _interface.EngineFactory {
	return func() (_interface.OCREngine, error) {
		client := gosseract.NewClient()

		langs := strings.Split(language, "+")
		if err := client.SetLanguage(langs...); err != nil {
			client.Close()
			return nil, fmt.Errorf("언어 설정 실패: %v", err)
		}

		return &tesseractEngine{client: client}, nil
	}
}

// Recognize는 이미지 파일에서 전체 텍스트와 단어별 신뢰도를 추출합니다
func (e *tesseractEngine) Recognize(imagePath string) (*structure.TextDetection, error) {
	if err := e.client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("이미지 설정 실패: %v", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return nil, fmt.Errorf("텍스트 추출 실패: %v", err)
	}
	text = strings.TrimSpace(text)

	detection := &structure.TextDetection{
		Text:  text,
		Words: []structure.OCRWord{},
	}

	// 단어 단위 신뢰도 (0~100). 바운딩 박스 추출이 실패해도 전체
	// 텍스트는 반환합니다.
	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err == nil {
		for _, box := range boxes {
			if box.Word == "" {
				continue
			}
			detection.Words = append(detection.Words, structure.OCRWord{
				Text:       box.Word,
				Confidence: box.Confidence,
			})
		}
	}

	return detection, nil
}

// Close는 gosseract 클라이언트를 해제합니다
func (e *tesseractEngine) Close() error {
	return e.client.Close()
}
