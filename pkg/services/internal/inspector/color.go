package inspector

import (
	"image"
	"math"
	"sort"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	constants "github.com/sh5080/vision-go/pkg/types"
	structure "github.com/sh5080/vision-go/pkg/types/structures"
)

// dominantColors는 이미지의 지배 색상 상위 count개를 추출합니다.
// 전체 픽셀을 순회하는 대신 작은 팔레트 크기로 축소한 뒤 채널당
// 16단계로 양자화해 비슷한 색을 묶습니다.
func dominantColors(img image.Image, count int) []structure.DominantColor {
	small := imaging.Resize(img, constants.PaletteSize, constants.PaletteSize, imaging.Lanczos)

	type bucket struct {
		r, g, b uint8
		n       int
	}
	buckets := make(map[uint32]*bucket)

	bounds := small.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return nil
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := small.At(x, y).RGBA()
			qr := uint8(r>>8) / 16 * 16
			qg := uint8(g>>8) / 16 * 16
			qb := uint8(b>>8) / 16 * 16

			key := uint32(qr)<<16 | uint32(qg)<<8 | uint32(qb)
			if bk, ok := buckets[key]; ok {
				bk.n++
			} else {
				buckets[key] = &bucket{r: qr, g: qg, b: qb, n: 1}
			}
		}
	}

	sorted := make([]*bucket, 0, len(buckets))
	for _, bk := range buckets {
		sorted = append(sorted, bk)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].n > sorted[j].n
	})

	if len(sorted) > count {
		sorted = sorted[:count]
	}

	colors := make([]structure.DominantColor, 0, len(sorted))
	for _, bk := range sorted {
		c := colorful.Color{
			R: float64(bk.r) / 255,
			G: float64(bk.g) / 255,
			B: float64(bk.b) / 255,
		}
		h, s, l := c.Hsl()

		colors = append(colors, structure.DominantColor{
			Hex:        c.Hex(),
			R:          bk.r,
			G:          bk.g,
			B:          bk.b,
			H:          int(math.Round(h)),
			S:          int(math.Round(s * 100)),
			L:          int(math.Round(l * 100)),
			Percentage: float64(bk.n) / float64(total) * 100,
		})
	}

	return colors
}
