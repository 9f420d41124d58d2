package entity

import "time"

// ExtractionInput は抽出器に渡す1通分のメール情報です。
type ExtractionInput struct {
	Subject    string
	Body       string
	From       string
	ReceivedAt time.Time
	// Context は呼び出し元が任意で与える補足情報です（例：既知のポートフォリオ名一覧）。
	Context string
}
