package imap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"

	"mailtrade_backend/internal/feature/mailbox/domain/entity"
)

// Client はIMAPメールボックスへのソースコネクタです。
// リモートのメールボックス状態（フラグ・フォルダ移動）を変更することが
// 許されている唯一のコンポーネントです。
type Client struct {
	cfg  Config
	conn *imapclient.Client
}

// Dial はメールボックスに接続しログインします。
func Dial(cfg Config) (*Client, error) {
	var conn *imapclient.Client
	var err error
	if cfg.TLS {
		conn, err = imapclient.DialTLS(cfg.Addr(), nil)
	} else {
		conn, err = imapclient.DialInsecure(cfg.Addr(), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("imap dial %s: %w", cfg.Addr(), err)
	}
	if err := conn.Login(cfg.Username, cfg.Password).Wait(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("imap login %q: %w", cfg.Username, err)
	}
	return &Client{cfg: cfg, conn: conn}, nil
}

// Close はログアウトして接続を閉じます。
func (c *Client) Close() error {
	if err := c.conn.Logout().Wait(); err != nil {
		return c.conn.Close()
	}
	return c.conn.Close()
}

// FetchPending は未読メッセージを取得し、IncomingEmailのスライスとして返します。
// sinceUIDより大きいUIDのみが対象です（0なら全未読）。返される順序は
// メールボックスの到着順であり、他クライアントが並行して操作している場合の
// 単調性は保証されません。シーケンスは有限で、再開にはUIDカーソルを使います。
func (c *Client) FetchPending(ctx context.Context, sinceUID uint32) ([]entity.IncomingEmail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := c.conn.Select(c.cfg.Mailbox, nil).Wait(); err != nil {
		return nil, fmt.Errorf("imap select %q: %w", c.cfg.Mailbox, err)
	}

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}
	if sinceUID > 0 {
		criteria.UID = []imap.UIDSet{{imap.UIDRange{Start: imap.UID(sinceUID + 1), Stop: 0}}}
	}
	data, err := c.conn.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap search: %w", err)
	}
	uids := data.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var set imap.UIDSet
	set.AddNum(uids...)
	fetchOptions := &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{{}},
	}
	msgs, err := c.conn.Fetch(set, fetchOptions).Collect()
	if err != nil {
		return nil, fmt.Errorf("imap fetch: %w", err)
	}

	emails := make([]entity.IncomingEmail, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Envelope == nil {
			continue
		}
		e := entity.IncomingEmail{
			MessageID:  msg.Envelope.MessageID,
			UID:        uint32(msg.UID),
			Subject:    msg.Envelope.Subject,
			ReceivedAt: msg.Envelope.Date,
			Status:     entity.EmailStatusPending,
		}
		if len(msg.Envelope.From) > 0 {
			e.FromAddress = msg.Envelope.From[0].Addr()
		}
		if raw := msg.FindBodySection(&imap.FetchItemBodySection{}); raw != nil {
			text, html := extractBodies(raw)
			e.TextBody = text
			e.HTMLBody = html
		}
		emails = append(emails, e)
	}
	return emails, nil
}

// Archive は指定のmessage-idを持つメッセージを処理済みフォルダへ移動します。
// MOVEに対応しないサーバーでは既読フラグ付与にフォールバックします。
// 失敗しても呼び出し元にとっては非致命的です。対象メールは既に永続化の
// 終端状態に達しており、再取得されてもデデュープゲートで弾かれます。
func (c *Client) Archive(ctx context.Context, messageID, outcome string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.conn.Select(c.cfg.Mailbox, nil).Wait(); err != nil {
		return fmt.Errorf("imap select %q: %w", c.cfg.Mailbox, err)
	}

	criteria := &imap.SearchCriteria{
		Header: []imap.SearchCriteriaHeaderField{{Key: "Message-Id", Value: messageID}},
	}
	data, err := c.conn.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return fmt.Errorf("imap search message-id %q: %w", messageID, err)
	}
	uids := data.AllUIDs()
	if len(uids) == 0 {
		// 他クライアントが既に移動済みの可能性があるため成功扱い
		slog.Info("message already gone from mailbox", "message_id", messageID, "outcome", outcome)
		return nil
	}

	var set imap.UIDSet
	set.AddNum(uids...)
	if _, err := c.conn.Move(set, c.cfg.ArchiveFolder).Wait(); err != nil {
		// フォールバック：既読フラグのみ付与して取り込み対象から外す
		storeErr := c.conn.Store(set, &imap.StoreFlags{
			Op:     imap.StoreFlagsAdd,
			Silent: true,
			Flags:  []imap.Flag{imap.FlagSeen},
		}, nil).Close()
		if storeErr != nil {
			return fmt.Errorf("imap move to %q failed (%v) and flag fallback failed: %w", c.cfg.ArchiveFolder, err, storeErr)
		}
		slog.Warn("imap move failed, marked message seen instead", "message_id", messageID, "error", err)
	}
	return nil
}

// extractBodies は生のRFC822メッセージからtext/plainとtext/htmlの本文を取り出します。
// MIMEとして解釈できない場合は生データをテキスト本文として扱います。
func extractBodies(raw []byte) (text, html string) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return string(raw), ""
	}
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ct, _, err := h.ContentType()
		if err != nil {
			continue
		}
		b, err := io.ReadAll(p.Body)
		if err != nil {
			continue
		}
		switch {
		case strings.HasPrefix(ct, "text/plain") && text == "":
			text = string(b)
		case strings.HasPrefix(ct, "text/html") && html == "":
			html = string(b)
		}
	}
	return text, html
}
