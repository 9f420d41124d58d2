// Package imap はIMAPメールボックスへのソースコネクタを提供します。
package imap

import (
	"os"
	"strconv"
)

// Config はIMAP接続の設定です。
type Config struct {
	Host          string
	Port          int
	TLS           bool
	Username      string
	Password      string // アプリパスワード
	Mailbox       string // 取得対象（通常INBOX）
	ArchiveFolder string // 処理済みメールの移動先
}

// Addr は接続先のhost:portを返します。
func (c Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// LoadConfig は環境変数からIMAP設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		Host:          os.Getenv("IMAP_HOST"),
		Port:          993,
		TLS:           true,
		Username:      os.Getenv("IMAP_USERNAME"),
		Password:      os.Getenv("IMAP_PASSWORD"),
		Mailbox:       os.Getenv("IMAP_MAILBOX"),
		ArchiveFolder: os.Getenv("IMAP_ARCHIVE_FOLDER"),
	}
	if p := os.Getenv("IMAP_PORT"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			cfg.Port = n
		}
	}
	if os.Getenv("IMAP_TLS") == "false" {
		cfg.TLS = false
	}
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	if cfg.ArchiveFolder == "" {
		cfg.ArchiveFolder = "Processed"
	}
	return cfg
}
