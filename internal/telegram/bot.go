package telegram

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	applog "despesas/internal/log"
	"despesas/internal/middleware/ratelimit"
)

// MsgNotAllowed answers chats outside the allow-list.
const MsgNotAllowed = "⛔ Este bot é privado."

// MsgSlowDown answers chats over the rate limit.
const MsgSlowDown = "⏳ Demasiadas mensagens. Tenta novamente dentro de um minuto."

type BotConfig struct {
	Token       string
	PollTimeout time.Duration
	// AllowedUserID restricts the bot to one Telegram user; zero allows everyone.
	AllowedUserID int64
	// Offline skips the getMe call; used in tests.
	Offline bool
}

// Bot wires a Handler to the Telegram long-polling API.
type Bot struct {
	bot     *tele.Bot
	handler *Handler
	limiter *ratelimit.Limiter
	allowed int64
	logger  *applog.Logger
	events  *applog.StructuredLogger
	ctx     context.Context
}

func NewBot(cfg BotConfig, handler *Handler, limiter *ratelimit.Limiter, logger *applog.Logger) (*Bot, error) {
	logger = logger.WithComponent(applog.ComponentBot)
	b := &Bot{
		handler: handler,
		limiter: limiter,
		allowed: cfg.AllowedUserID,
		logger:  logger,
		events:  applog.NewStructuredLogger(logger),
		ctx:     context.Background(),
	}

	tb, err := tele.NewBot(tele.Settings{
		Token:   cfg.Token,
		Poller:  &tele.LongPoller{Timeout: cfg.PollTimeout},
		Offline: cfg.Offline,
		OnError: func(err error, c tele.Context) {
			logger.ErrorContext(b.ctx, "Telegram handler error", applog.FieldError, err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	b.bot = tb
	b.register()
	return b, nil
}

func (b *Bot) register() {
	b.bot.Use(b.authorize, b.rateLimit)

	help := func(c tele.Context) error { return b.send(c, b.handler.Help()) }
	b.bot.Handle("/start", help)
	b.bot.Handle("/ajuda", help)
	b.bot.Handle("/resumo", func(c tele.Context) error {
		return b.send(c, b.handler.Summary(b.ctx, c.Args()))
	})
	b.bot.Handle("/despesas", func(c tele.Context) error {
		return b.send(c, b.handler.List(b.ctx, c.Args()))
	})
	b.bot.Handle("/grafico", func(c tele.Context) error {
		return b.send(c, b.handler.Chart(b.ctx, c.Args()))
	})
	b.bot.Handle(tele.OnText, b.onText)
}

// onText records free text as an expense. Commands without a handler land
// here too and get the usage message instead.
func (b *Bot) onText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if strings.HasPrefix(text, "/") {
		return b.send(c, b.handler.Help())
	}
	return b.send(c, b.handler.Text(b.ctx, text))
}

// Start polls until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.ctx = ctx
	b.logger.InfoContext(ctx, "Telegram bot polling started")

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.bot.Start()
	}()

	<-ctx.Done()
	b.bot.Stop()
	<-done
	b.logger.InfoContext(context.Background(), "Telegram bot stopped")
	return nil
}

func (b *Bot) authorize(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if b.allowed != 0 && (c.Sender() == nil || c.Sender().ID != b.allowed) {
			b.logger.WarnContext(b.ctx, "Rejected message from unknown user", applog.FieldChatID, chatID(c))
			return c.Send(MsgNotAllowed)
		}
		return next(c)
	}
}

func (b *Bot) rateLimit(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if b.limiter != nil && !b.limiter.Allow(strconv.FormatInt(chatID(c), 10)) {
			b.logger.WarnContext(b.ctx, "Chat rate limited", applog.FieldChatID, chatID(c))
			return c.Send(MsgSlowDown)
		}
		err := next(c)
		b.events.LogCommand(b.ctx, chatID(c), command(c), err)
		return err
	}
}

func (b *Bot) send(c tele.Context, r Reply) error {
	if r.Photo != nil {
		return c.Send(&tele.Photo{File: tele.FromReader(bytes.NewReader(r.Photo)), Caption: r.Caption})
	}
	for _, chunk := range Chunks(r.Text, MaxMessageLength) {
		if err := c.Send(chunk); err != nil {
			return err
		}
	}
	return nil
}

func chatID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	if s := c.Sender(); s != nil {
		return s.ID
	}
	return 0
}

// command names the message kind for logs; free text is never logged.
func command(c tele.Context) string {
	if m := c.Message(); m != nil && len(m.Text) > 0 && m.Text[0] == '/' {
		return m.Text[:commandEnd(m.Text)]
	}
	return "text"
}

func commandEnd(s string) int {
	for i, r := range s {
		if r == ' ' || r == '@' || r == '\n' {
			return i
		}
	}
	return len(s)
}
