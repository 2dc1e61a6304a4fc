package utils

import "testing"

type listQuery struct {
	Limit  int    `json:"limit" validate:"min=0,max=100"`
	Offset int    `json:"offset" validate:"min=0"`
	Title  string `json:"title" validate:"max=10"`
}

func TestParseAndValidate(t *testing.T) {
	var dto listQuery
	err := ParseAndValidate(map[string]string{
		"limit":  "20",
		"offset": "5",
		"title":  "라벨",
	}, &dto)
	if err != nil {
		t.Fatalf("ParseAndValidate 실패: %v", err)
	}
	if dto.Limit != 20 || dto.Offset != 5 || dto.Title != "라벨" {
		t.Errorf("파싱 결과 = %+v", dto)
	}
}

func TestParseAndValidateRejectsInvalid(t *testing.T) {
	var dto listQuery
	if err := ParseAndValidate(map[string]string{"limit": "200"}, &dto); err == nil {
		t.Error("max 위반은 에러를 반환해야 합니다")
	}

	dto = listQuery{}
	if err := ParseAndValidate(map[string]string{"limit": "숫자아님"}, &dto); err == nil {
		t.Error("숫자가 아닌 값은 에러를 반환해야 합니다")
	}

	if err := ParseAndValidate(nil, listQuery{}); err == nil {
		t.Error("포인터가 아닌 DTO는 에러를 반환해야 합니다")
	}
}

func TestPaginationRequest(t *testing.T) {
	cases := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, 10, 0},
		{-5, -3, 10, 0},
		{500, 2, 100, 2},
		{20, 5, 20, 5},
	}

	for _, tc := range cases {
		limit, offset := PaginationRequest(tc.limit, tc.offset)
		if limit != tc.wantLimit || offset != tc.wantOffset {
			t.Errorf("PaginationRequest(%d, %d) = (%d, %d), 기대값 (%d, %d)",
				tc.limit, tc.offset, limit, offset, tc.wantLimit, tc.wantOffset)
		}
	}
}
