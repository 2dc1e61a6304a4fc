package utils

import "bytes"

// DetectImageFormat은 매직 바이트로 이미지 포맷을 판별합니다.
// 판별할 수 없으면 빈 문자열을 반환합니다.
func DetectImageFormat(data []byte) string {
	if len(data) < 12 {
		return ""
	}

	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "jpeg"
	case bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return "png"
	case bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "webp"
	case bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")):
		return "gif"
	}

	return ""
}

// IsAllowedImageFormat은 포맷이 허용 목록에 있는지 확인합니다
func IsAllowedImageFormat(format string, allowed []string) bool {
	for _, f := range allowed {
		if f == format {
			return true
		}
	}
	return false
}
