package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	mailentity "mailtrade_backend/internal/feature/mailbox/domain/entity"
	pfentity "mailtrade_backend/internal/feature/portfolios/domain/entity"
	reviewentity "mailtrade_backend/internal/feature/review/domain/entity"
	symentity "mailtrade_backend/internal/feature/symbols/domain/entity"
	txentity "mailtrade_backend/internal/feature/transactions/domain/entity"
)

// Config はPostgres接続設定を保持します。
type Config struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	SSLMode  string
}

// LoadConfig は環境変数から接続設定を読み込みます。
func LoadConfig() Config {
	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}
	return Config{
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		SSLMode:  sslmode,
	}
}

// BuildDSN は設定からPostgresのDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// Opener はDSNからgorm.DBを開く関数です（テストで差し替え可能）。
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry はタイムアウトまで3秒間隔で接続をリトライします。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}
}

func OpenDB() *gorm.DB {
	dsn := BuildDSN(LoadConfig())

	db, err := ConnectWithRetry(dsn, 60*time.Second, func(dsn string) (*gorm.DB, error) {
		return gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// マイグレーション（IncomingEmail, Transaction など）
		if err := db.AutoMigrate(
			&mailentity.IncomingEmail{},
			&symentity.Asset{},
			&pfentity.Portfolio{},
			&txentity.Transaction{},
			&reviewentity.ReviewItem{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}

	}

	return db
}
