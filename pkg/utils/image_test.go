package utils

import "testing"

func TestDetectImageFormat(t *testing.T) {
	pad := func(b []byte) []byte {
		for len(b) < 12 {
			b = append(b, 0)
		}
		return b
	}

	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", pad([]byte{0xFF, 0xD8, 0xFF, 0xE0}), "jpeg"},
		{"png", pad([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}), "png"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBP"), "webp"},
		{"gif", pad([]byte("GIF89a")), "gif"},
		{"알 수 없음", pad([]byte("hello world!")), ""},
		{"너무 짧음", []byte{0xFF, 0xD8}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectImageFormat(tc.data); got != tc.want {
				t.Errorf("DetectImageFormat = %q, 기대값 %q", got, tc.want)
			}
		})
	}
}

func TestIsAllowedImageFormat(t *testing.T) {
	allowed := []string{"jpeg", "png", "webp"}

	if !IsAllowedImageFormat("png", allowed) {
		t.Error("png은 허용되어야 합니다")
	}
	if IsAllowedImageFormat("gif", allowed) {
		t.Error("gif는 허용되면 안 됩니다")
	}
	if IsAllowedImageFormat("", allowed) {
		t.Error("빈 포맷은 허용되면 안 됩니다")
	}
}
