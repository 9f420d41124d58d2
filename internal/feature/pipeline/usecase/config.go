package usecase

import (
	"os"
	"strconv"
)

const (
	// DefaultConfidenceThreshold は自動確定に必要な最低信頼度です。
	DefaultConfidenceThreshold = 0.8
	// DefaultFetchMaxRetries はメールボックス取得のリトライ上限です。
	DefaultFetchMaxRetries = 3
)

// Config はパイプラインの動作設定を保持します。
type Config struct {
	ConfidenceThreshold float64
	FetchMaxRetries     uint64
}

// LoadConfig は環境変数からパイプライン設定を読み込みます。
// 未設定または不正な値の場合はデフォルト値を使用します。
func LoadConfig() Config {
	cfg := Config{
		ConfidenceThreshold: DefaultConfidenceThreshold,
		FetchMaxRetries:     DefaultFetchMaxRetries,
	}
	if v := os.Getenv("PIPELINE_CONFIDENCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.ConfidenceThreshold = f
		}
	}
	if v := os.Getenv("PIPELINE_FETCH_MAX_RETRIES"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.FetchMaxRetries = n
		}
	}
	return cfg
}
