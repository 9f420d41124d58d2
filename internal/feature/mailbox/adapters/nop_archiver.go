package adapters

import (
	"context"
	"log/slog"
)

// NopArchiver はメールボックスに接続できない環境向けのアーカイバです。
// アーカイブ要求を記録だけして成功を返します。取引の確定はメールボックスの
// 可用性に依存させません。
type NopArchiver struct{}

// Archive は何もせずにnilを返します。
func (NopArchiver) Archive(_ context.Context, messageID, outcome string) error {
	slog.Info("skipping mailbox archive (no IMAP connection)", "messageID", messageID, "outcome", outcome)
	return nil
}
