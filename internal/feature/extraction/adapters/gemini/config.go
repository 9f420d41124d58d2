// Package gemini はGoogle Gemini APIを使用した取引メール抽出クライアントを提供します。
package gemini

import (
	"os"
	"strconv"
	"time"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
	// DefaultTimeout はモデル呼び出し1回あたりのデフォルトタイムアウトです。
	DefaultTimeout = 30 * time.Second
)

// Config はGeminiクライアントの設定です。
type Config struct {
	Model   string        // 使用するモデル名
	Timeout time.Duration // リクエスト1回あたりのタイムアウト
}

// LoadConfig は環境変数からGemini設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		Model:   os.Getenv("GEMINI_MODEL"),
		Timeout: DefaultTimeout,
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if s := os.Getenv("GEMINI_TIMEOUT_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			cfg.Timeout = time.Duration(n) * time.Second
		}
	}
	return cfg
}
