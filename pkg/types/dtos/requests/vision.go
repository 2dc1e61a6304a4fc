package request

// AnalyzeImageForm은 이미지 분석 요청의 멀티파트 폼 필드입니다.
// 이미지 파일 자체는 "image" 필드로 전달됩니다.
type AnalyzeImageForm struct {
	Title string `json:"title" validate:"max=200"`
}

// AnalysisListQuery는 분석 이력 조회 쿼리를 나타냅니다.
type AnalysisListQuery struct {
	Limit  int `json:"limit" validate:"min=0,max=100"`
	Offset int `json:"offset" validate:"min=0"`
}
