package inspector

import (
	"fmt"
	"image"
	"math"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	_interface "github.com/sh5080/vision-go/pkg/interfaces"
	constants "github.com/sh5080/vision-go/pkg/types"
	structure "github.com/sh5080/vision-go/pkg/types/structures"
)

// ImageInspector는 이미지 품질과 색상 특성을 분석합니다
type ImageInspector struct {
	maxResolution int
	colorCount    int
}

// NewInspector는 새 이미지 분석기를 생성합니다
func NewInspector() _interface.InspectorService {
	return &ImageInspector{
		maxResolution: constants.MaxResolution,
		colorCount:    constants.DominantColorCount,
	}
}

// Inspect는 이미지 파일을 디코딩해 해상도, 채널 통계, 품질 점수,
// 지배 색상을 계산합니다
func (i *ImageInspector) Inspect(imagePath string) (*structure.ImageProperties, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("이미지 열기 실패: %v", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("이미지 디코딩 실패: %v", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	stats := channelStats(img)

	props := &structure.ImageProperties{
		Width:        width,
		Height:       height,
		Format:       format,
		HasAlpha:     hasAlpha(img),
		ChannelStats: stats,
		Score:        i.qualityScore(width, height, stats),
		Colors:       dominantColors(img, i.colorCount),
	}

	return props, nil
}

// qualityScore는 해상도 점수와 선명도 점수의 평균입니다 (0~100).
// 선명도는 채널 표준편차의 평균을 근사치로 사용합니다. 편차가 낮은
// 이미지는 흐릿하거나 단색에 가깝습니다.
func (i *ImageInspector) qualityScore(width, height int, stats []structure.ChannelStat) int {
	resolutionScore := math.Min(float64(width*height)/float64(i.maxResolution), 1) * 100

	var stdevSum float64
	for _, s := range stats {
		stdevSum += s.Stdev
	}
	avgStdev := 0.0
	if len(stats) > 0 {
		avgStdev = stdevSum / float64(len(stats))
	}
	sharpnessScore := math.Min(avgStdev*5, 100)

	return int(math.Round((resolutionScore + sharpnessScore) / 2))
}

// channelStats는 R/G/B 채널별 평균과 표준편차를 계산합니다 (8비트 기준)
func channelStats(img image.Image) []structure.ChannelStat {
	bounds := img.Bounds()
	total := float64(bounds.Dx() * bounds.Dy())
	if total == 0 {
		return nil
	}

	var sum, sumSq [3]float64

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			values := [3]float64{
				float64(r >> 8),
				float64(g >> 8),
				float64(b >> 8),
			}
			for c, v := range values {
				sum[c] += v
				sumSq[c] += v * v
			}
		}
	}

	names := [3]string{"red", "green", "blue"}
	stats := make([]structure.ChannelStat, 3)
	for c := 0; c < 3; c++ {
		mean := sum[c] / total
		variance := sumSq[c]/total - mean*mean
		if variance < 0 {
			variance = 0
		}
		stats[c] = structure.ChannelStat{
			Channel: names[c],
			Mean:    mean,
			Stdev:   math.Sqrt(variance),
		}
	}

	return stats
}

// hasAlpha는 이미지에 불투명하지 않은 픽셀이 있는지 확인합니다
func hasAlpha(img image.Image) bool {
	if opaquer, ok := img.(interface{ Opaque() bool }); ok {
		return !opaquer.Opaque()
	}

	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a < 0xffff {
				return true
			}
		}
	}
	return false
}
