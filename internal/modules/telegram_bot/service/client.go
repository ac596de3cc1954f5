package service

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bitunix_bot/internal/modules/config"
	"bitunix_bot/internal/trader"
	"bitunix_bot/pkg/logger"
)

// Telegram — панель управления торговлей: команды открытия/закрытия,
// TP/SL, сводка по счёту.
type Telegram struct {
	bot    *tgbot.BotAPI
	cfg    *config.Config
	trader *trader.Trader
}

func NewTelegram(cfg *config.Config, tr *trader.Trader) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}

	return &Telegram{
		bot:    b,
		cfg:    cfg,
		trader: tr,
	}, nil
}

func (t *Telegram) Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error) {
	return t.bot.Send(tgbot.NewMessage(chatID, msg))
}

func (t *Telegram) SendF(ctx context.Context, chatID int64, format string, args ...any) (tgbot.Message, error) {
	return t.Send(ctx, chatID, fmt.Sprintf(format, args...))
}

// Start ...
func (t *Telegram) Start(ctx context.Context) {
	mode := "бумажный режим"
	if !t.trader.PaperMode() {
		mode = "БОЕВОЙ режим"
	}
	logger.Info("telegram bot started, %s", mode)

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	go func() {
		for update := range updates {
			t.handleUpdate(ctx, update)
		}
	}()
}

func (t *Telegram) Stop() {
	t.bot.StopReceivingUpdates()
}
