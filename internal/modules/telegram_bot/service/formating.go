package service

import (
	"fmt"
	"strings"

	"bitunix_bot/internal/helper"
	"bitunix_bot/internal/models"
	paper "bitunix_bot/internal/modules/paper/service"
)

func formatPositions(positions []models.Position) string {
	var b strings.Builder
	b.WriteString("📊 Открытые позиции:\n")
	for _, p := range positions {
		fmt.Fprintf(&b, "- %s [%s] qty=%s @ %s lev=%dx",
			p.Symbol, p.Side, formatFloat(p.Qty), formatFloat(p.EntryPrice), p.Leverage)
		if p.HasMarkPrice || p.MarkPrice > 0 {
			fmt.Fprintf(&b, " mark=%s", formatFloat(p.MarkPrice))
		}
		if p.HasPNL {
			fmt.Fprintf(&b, " uPNL=%+.4f", p.UnrealizedPNL)
		}
		fmt.Fprintf(&b, "\n  id: %s\n", p.PositionID)
	}
	return b.String()
}

func formatSummary(s paper.Summary, paperMode bool) string {
	if !paperMode {
		return fmt.Sprintf(
			"💰 Счёт (боевой режим)\n\n"+
				"Баланс: %.2f USDT\n"+
				"Открытых позиций: %d\n"+
				"Экспозиция: %.2f USDT\n",
			s.Balance, s.OpenPositions, s.TotalExposure,
		)
	}
	return fmt.Sprintf(
		"📝 Бумажный счёт\n\n"+
			"Баланс: %.2f USDT\n"+
			"Экспозиция: %.2f USDT\n"+
			"Открытых позиций: %d\n"+
			"Всего сделок: %d\n"+
			"Реализованный PnL: %+.4f USDT\n"+
			"Win rate: %.1f%%\n"+
			"Сделок сегодня: %d\n",
		s.Balance, s.TotalExposure, s.OpenPositions,
		s.TotalTrades, s.RealizedPnl, s.WinRate, s.DailyTrades,
	)
}

func formatFloat(v float64) string {
	return helper.FormatNumber(v, 6)
}
