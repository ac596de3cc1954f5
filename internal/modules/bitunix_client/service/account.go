package service

import (
	"context"

	"bitunix_bot/internal/models"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// Account — информация по аккаунту. Нестабильный эндпоинт: временами
// отвечает "Signature Error" (10007).
func (c *Client) Account(ctx context.Context, marginCoin string) (models.Result, error) {
	return c.getSigned(ctx, "/api/v1/futures/account", map[string]string{"marginCoin": marginCoin})
}

// AccountBalance — доступный баланс и эквити аккаунта в USDT.
func (c *Client) AccountBalance(ctx context.Context) (available, equity float64, err error) {
	res, err := c.Account(ctx, "USDT")
	if err != nil {
		return 0, 0, err
	}
	if !res.OK() {
		return 0, 0, errors.Errorf("account: code %d: %s", res.Code, res.Msg)
	}

	var acc rawAccount
	if err := sonic.Unmarshal(res.Data, &acc); err != nil {
		return 0, 0, errors.Wrap(err, "decode account")
	}
	return fnum(acc.Available), fnum(acc.Equity), nil
}

// totalMargin — суммарная маржа аккаунта, best effort: эндпоинт нестабилен,
// при любой ошибке возвращаем 0 и ставка производится без неё.
func (c *Client) totalMargin(ctx context.Context) float64 {
	res, err := c.Account(ctx, "USDT")
	if err != nil || !res.OK() || len(res.Data) == 0 {
		return 0
	}

	var acc rawAccount
	if err := sonic.Unmarshal(res.Data, &acc); err != nil {
		return 0
	}
	return fnum(acc.TotalMargin)
}
