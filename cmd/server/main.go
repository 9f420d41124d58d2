package main

import (
	"log"
	"os"

	"mailtrade_backend/internal/app/router"
	mailboxadapters "mailtrade_backend/internal/feature/mailbox/adapters"
	imapadapter "mailtrade_backend/internal/feature/mailbox/adapters/imap"
	pfadapters "mailtrade_backend/internal/feature/portfolios/adapters"
	reviewadapters "mailtrade_backend/internal/feature/review/adapters"
	reviewhandler "mailtrade_backend/internal/feature/review/transport/handler"
	reviewusecase "mailtrade_backend/internal/feature/review/usecase"
	symadapters "mailtrade_backend/internal/feature/symbols/adapters"
	txadapters "mailtrade_backend/internal/feature/transactions/adapters"
	txusecase "mailtrade_backend/internal/feature/transactions/usecase"
	infradb "mailtrade_backend/internal/platform/db"
)

func main() {
	// db
	db := infradb.OpenDB()

	// IMAP（アーカイブ用）。接続できなければアーカイブなしで継続する
	var archiver reviewusecase.MailArchiver
	imapClient, err := imapadapter.Dial(imapadapter.LoadConfig())
	if err != nil {
		log.Println("[WARN] IMAP unavailable. Approve/Reject will skip mailbox archiving:", err)
		archiver = mailboxadapters.NopArchiver{}
	} else {
		archiver = imapClient
		defer func() {
			if err := imapClient.Close(); err != nil {
				log.Println("[ERROR] Failed to close IMAP client:", err)
			}
		}()
	}

	// Repository
	txRepo := txadapters.NewTransactionRepository(db)
	assetRepo := symadapters.NewAssetRepository(db)
	portfolioRepo := pfadapters.NewPortfolioRepository(db)
	reviewRepo := reviewadapters.NewReviewRepository(db)
	emailRepo := mailboxadapters.NewEmailRepository(db)

	// Usecase
	gateUC := txusecase.NewGateUsecase(txRepo, assetRepo, portfolioRepo, archiver)
	reviewUC := reviewusecase.NewReviewUsecase(reviewRepo, gateUC, archiver, emailRepo)

	// Handler
	reviewH := reviewhandler.NewReviewHandler(reviewUC)

	// ルータ生成
	router := router.NewRouter(reviewH)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv("JWT_SECRET") == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
