package structure

// OCRWord는 OCR이 인식한 단어 하나와 신뢰도(0~100)를 나타냅니다
type OCRWord struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// TextDetection은 이미지에서 추출된 전체 텍스트와 단어 목록입니다
type TextDetection struct {
	Text  string    `json:"text"`
	Words []OCRWord `json:"words"`
}

// ChannelStat은 색상 채널별 픽셀 통계입니다 (0~255 기준)
type ChannelStat struct {
	Channel string  `json:"channel"`
	Mean    float64 `json:"mean"`
	Stdev   float64 `json:"stdev"`
}

// DominantColor는 이미지의 대표 색상 하나를 나타냅니다
type DominantColor struct {
	Hex        string  `json:"hex"`
	R          uint8   `json:"r"`
	G          uint8   `json:"g"`
	B          uint8   `json:"b"`
	H          int     `json:"h"`
	S          int     `json:"s"`
	L          int     `json:"l"`
	Percentage float64 `json:"percentage"`
}

// ImageProperties는 이미지 메타데이터와 품질 평가 결과입니다
type ImageProperties struct {
	Score        int             `json:"score"`
	Width        int             `json:"width"`
	Height       int             `json:"height"`
	Format       string          `json:"format"`
	HasAlpha     bool            `json:"hasAlpha"`
	ChannelStats []ChannelStat   `json:"channelStats"`
	Colors       []DominantColor `json:"colors"`
}

// AnalysisResult는 완료된 분석 작업의 전체 결과입니다
type AnalysisResult struct {
	TextDetection   TextDetection   `json:"textDetection"`
	ImageProperties ImageProperties `json:"imageProperties"`
}
