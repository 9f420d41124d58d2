package main

import (
	"context"
	"log"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"mailtrade_backend/internal/app/di"
	mailboxadapters "mailtrade_backend/internal/feature/mailbox/adapters"
	imapadapter "mailtrade_backend/internal/feature/mailbox/adapters/imap"
	pipelineusecase "mailtrade_backend/internal/feature/pipeline/usecase"
	pfadapters "mailtrade_backend/internal/feature/portfolios/adapters"
	reviewadapters "mailtrade_backend/internal/feature/review/adapters"
	reviewusecase "mailtrade_backend/internal/feature/review/usecase"
	symadapters "mailtrade_backend/internal/feature/symbols/adapters"
	txadapters "mailtrade_backend/internal/feature/transactions/adapters"
	txusecase "mailtrade_backend/internal/feature/transactions/usecase"
	infradb "mailtrade_backend/internal/platform/db"
	infraredis "mailtrade_backend/internal/platform/redis"
)

func main() {

	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// IMAP接続はポーラーの前提条件。つながらなければ何も処理しない
	imapClient, err := imapadapter.Dial(imapadapter.LoadConfig())
	if err != nil {
		log.Fatal("failed to connect to mailbox:", err)
	}
	defer func() {
		if err := imapClient.Close(); err != nil {
			log.Println("[ERROR] Failed to close IMAP client:", err)
		}
	}()

	// Repository
	emailRepo := mailboxadapters.NewEmailRepository(db)
	txRepo := txadapters.NewTransactionRepository(db)
	assetRepo := symadapters.NewAssetRepository(db)
	portfolioRepo := pfadapters.NewPortfolioRepository(db)
	reviewRepo := reviewadapters.NewReviewRepository(db)

	// Usecase
	extractUC, err := di.NewExtractionUsecase(ctx, rdb)
	if err != nil {
		log.Fatal("failed to initialize extractor:", err)
	}
	resolver := di.NewSymbolResolver(ctx)
	gateUC := txusecase.NewGateUsecase(txRepo, assetRepo, portfolioRepo, imapClient)
	reviewUC := reviewusecase.NewReviewUsecase(reviewRepo, gateUC, imapClient, emailRepo)

	uc := pipelineusecase.NewPipelineUsecase(imapClient, emailRepo, extractUC, resolver, gateUC, reviewUC, pipelineusecase.LoadConfig())

	if err := uc.ProcessAll(ctx); err != nil {
		log.Fatal(err)
	}
	log.Println("poll ok")
}
