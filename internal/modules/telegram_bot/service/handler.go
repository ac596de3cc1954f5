package service

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bitunix_bot/pkg/logger"
)

func (t *Telegram) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID

	// чужие чаты игнорируем
	if t.cfg.Telegram.ChatID != 0 && chatID != t.cfg.Telegram.ChatID {
		return
	}
	if !msg.IsCommand() {
		return
	}

	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "start", "help":
		t.handleStart(ctx, chatID)
	case "positions":
		go t.handlePositions(ctx, chatID)
	case "balance":
		go t.handleBalance(ctx, chatID)
	case "open":
		go t.handleOpen(ctx, chatID, args)
	case "close":
		go t.handleClose(ctx, chatID, args)
	case "tp":
		go t.handleTakeProfit(ctx, chatID, args)
	case "sl":
		go t.handleStopLoss(ctx, chatID, args)
	case "closeall":
		go t.handleCloseAll(ctx, chatID)
	default:
		_, _ = t.Send(ctx, chatID, "Неизвестная команда, /help")
	}
}

func (t *Telegram) handleStart(ctx context.Context, chatID int64) {
	mode := "📝 бумажный режим"
	if !t.trader.PaperMode() {
		mode = "🔴 БОЕВОЙ режим"
	}

	text := "Привет! Я торговый бот для Bitunix (" + mode + ").\n\n" +
		"Команды:\n" +
		"/open XRP BUY 0.8 — открыть позицию (токен, сторона, уверенность)\n" +
		"/close XRP <id> — закрыть позицию целиком\n" +
		"/tp XRP <id> — тейк-профит на 100% позиции\n" +
		"/sl XRP <id> — стоп-лосс на 100% позиции\n" +
		"/closeall — закрыть всё\n" +
		"/positions — открытые позиции\n" +
		"/balance — баланс и статистика"

	if _, err := t.Send(ctx, chatID, text); err != nil {
		logger.Error("handleStart: %v", err)
	}
}

// /open XRP BUY 0.8
func (t *Telegram) handleOpen(ctx context.Context, chatID int64, args []string) {
	if len(args) < 2 {
		_, _ = t.Send(ctx, chatID, "Формат: /open XRP BUY [уверенность 0..1]")
		return
	}

	confidence := 1.0
	if len(args) >= 3 {
		v, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			_, _ = t.SendF(ctx, chatID, "❗️ Плохая уверенность %q", args[2])
			return
		}
		confidence = v
	}

	out, err := t.trader.Open(ctx, args[0], args[1], confidence)
	if err != nil {
		_, _ = t.SendF(ctx, chatID, "❌ Не удалось открыть: %v", err)
		return
	}

	_, _ = t.SendF(ctx, chatID, "✅ Открыто %s %s: qty=%s @ %s (~$%.2f)\nid: %s",
		out.Symbol, out.Side, formatFloat(out.Quantity), formatFloat(out.Price), out.NotionalUSD, out.OrderID)
}

// /close XRP PAPER_123
func (t *Telegram) handleClose(ctx context.Context, chatID int64, args []string) {
	if len(args) < 2 {
		_, _ = t.Send(ctx, chatID, "Формат: /close XRP <id позиции>")
		return
	}

	out, err := t.trader.ClosePosition(ctx, args[0], args[1], "manual")
	if err != nil {
		_, _ = t.SendF(ctx, chatID, "❌ Не удалось закрыть: %v", err)
		return
	}

	if out.HasPnl {
		_, _ = t.SendF(ctx, chatID, "✅ Закрыто, PnL: %+.4f USDT", out.PnlUSD)
		return
	}
	_, _ = t.Send(ctx, chatID, "✅ Позиция закрыта")
}

// /tp XRP <id>
func (t *Telegram) handleTakeProfit(ctx context.Context, chatID int64, args []string) {
	if len(args) < 2 {
		_, _ = t.Send(ctx, chatID, "Формат: /tp XRP <id позиции>")
		return
	}

	price, err := t.trader.SetTakeProfit(ctx, args[0], args[1])
	if err != nil {
		_, _ = t.SendF(ctx, chatID, "❌ Не удалось поставить TP: %v", err)
		return
	}
	_, _ = t.SendF(ctx, chatID, "🎯 TP поставлен на всю позицию @ %s", formatFloat(price))
}

// /sl XRP <id>
func (t *Telegram) handleStopLoss(ctx context.Context, chatID int64, args []string) {
	if len(args) < 2 {
		_, _ = t.Send(ctx, chatID, "Формат: /sl XRP <id позиции>")
		return
	}

	price, err := t.trader.SetStopLoss(ctx, args[0], args[1])
	if err != nil {
		_, _ = t.SendF(ctx, chatID, "❌ Не удалось поставить SL: %v", err)
		return
	}
	_, _ = t.SendF(ctx, chatID, "🛡 SL поставлен на всю позицию @ %s", formatFloat(price))
}

func (t *Telegram) handleCloseAll(ctx context.Context, chatID int64) {
	n, err := t.trader.CloseAll(ctx)
	if err != nil {
		_, _ = t.SendF(ctx, chatID, "❌ Не удалось закрыть всё: %v", err)
		return
	}
	_, _ = t.SendF(ctx, chatID, "✅ Закрыто позиций: %d", n)
}

// /positions — вывод открытых позиций
func (t *Telegram) handlePositions(ctx context.Context, chatID int64) {
	positions, err := t.trader.Positions(ctx)
	if err != nil {
		_, _ = t.SendF(ctx, chatID, "❗️ Ошибка получения позиций: %v", err)
		return
	}
	if len(positions) == 0 {
		_, _ = t.Send(ctx, chatID, "📭 Открытых позиций нет")
		return
	}

	_, _ = t.Send(ctx, chatID, formatPositions(positions))
}

func (t *Telegram) handleBalance(ctx context.Context, chatID int64) {
	s, err := t.trader.Summary(ctx)
	if err != nil {
		_, _ = t.SendF(ctx, chatID, "❗️ Ошибка получения баланса: %v", err)
		return
	}
	_, _ = t.Send(ctx, chatID, formatSummary(s, t.trader.PaperMode()))
}
