package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"bitunix_bot/internal/models"
	"bitunix_bot/internal/modules/config"
	"bitunix_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
)

const marketTimeout = 10 * time.Second

// Client — REST-клиент Bitunix Futures.
//
// API местами нестабилен: часть эндпоинтов периодически отвечает
// "System error" (code 2) или "Signature Error" (10007), поэтому все
// подписанные POST идут через ограниченный ретрай. Транспортные ошибки
// не ретраятся — нельзя исключить, что запрос до биржи дошёл.
type Client struct {
	apiKey    string
	secretKey string
	baseURL   string

	http   *http.Client // подписанные запросы
	market *http.Client // публичная маркет-дата, фикс. таймаут 10s

	retries    int
	retryDelay time.Duration

	// подавлять ожидаемый шум code=2 в бумажном режиме (только логирование,
	// результат всё равно возвращается вызывающему)
	quiet bool

	nonce func() string
	now   func() time.Time
}

func New(cfg *config.Config) *Client {
	return &Client{
		apiKey:     cfg.Bitunix.APIKey,
		secretKey:  cfg.Bitunix.APISecret,
		baseURL:    cfg.Bitunix.BaseURL,
		http:       &http.Client{Timeout: cfg.HTTPTimeout},
		market:     &http.Client{Timeout: marketTimeout},
		retries:    cfg.Retries,
		retryDelay: cfg.RetryDelay,
		quiet:      cfg.PaperTrading,
		nonce:      newNonce,
		now:        time.Now,
	}
}

// PostJSON сериализует тело в канонический вид (ключи отсортированы, без
// лишних пробелов), подписывает ровно эти байты и отправляет их же.
// При code != 0 ждёт retryDelay и повторяет, суммарно retries+1 попыток;
// возвращается последний результат.
func (c *Client) PostJSON(ctx context.Context, path string, body map[string]any) (models.Result, error) {
	// ConfigStd сортирует ключи мап — подпись обязана считаться над теми же
	// байтами, что уходят на провод.
	payload, err := sonic.ConfigStd.Marshal(body)
	if err != nil {
		return models.Result{}, errors.Wrap(err, "marshal body")
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "bitunix.post "+path)
	defer span.Finish()

	var last models.Result
	for attempt := 0; attempt <= c.retries; attempt++ {
		res, err := c.postOnce(ctx, path, payload)
		if err != nil {
			return models.Result{}, err
		}
		if res.OK() {
			return res, nil
		}

		c.logAPIError(res)
		last = res

		if attempt < c.retries {
			select {
			case <-ctx.Done():
				return last, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}
	}
	return last, nil
}

func (c *Client) postOnce(ctx context.Context, path string, payload []byte) (models.Result, error) {
	headers := authHeaders(c.apiKey, c.secretKey, "", string(payload), c.nonce(), msTimestamp(c.now()))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return models.Result{}, errors.Wrap(err, "new request")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Result{}, errors.Wrap(err, "post "+path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Result{}, errors.Wrap(err, "read body")
	}
	if resp.StatusCode/100 != 2 {
		return models.Result{}, errors.Errorf("http %d: %s", resp.StatusCode, string(raw))
	}

	res, err := models.ParseResult(raw)
	if err != nil {
		return models.Result{}, errors.Wrap(err, "decode response")
	}
	return res, nil
}

// getSigned — подписанный GET (позиции, аккаунт). Без ретраев.
func (c *Client) getSigned(ctx context.Context, path string, params map[string]string) (models.Result, error) {
	query := sortParams(params)
	headers := authHeaders(c.apiKey, c.secretKey, query, "", c.nonce(), msTimestamp(c.now()))

	url := c.baseURL + path
	if query != "" {
		url += "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Result{}, errors.Wrap(err, "new request")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Result{}, errors.Wrap(err, "get "+path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Result{}, errors.Wrap(err, "read body")
	}
	if resp.StatusCode/100 != 2 {
		return models.Result{}, errors.Errorf("http %d: %s", resp.StatusCode, string(raw))
	}

	res, err := models.ParseResult(raw)
	if err != nil {
		return models.Result{}, errors.Wrap(err, "decode response")
	}
	if !res.OK() {
		c.logAPIError(res)
	}
	return res, nil
}

// getPublic — маркет-дата без подписи. Транспортная ошибка здесь не фатальна
// для вызывающего и сворачивается в локальный code -1.
func (c *Client) getPublic(ctx context.Context, path string, params map[string]string) models.Result {
	url := c.baseURL + path
	if query := sortParams(params); query != "" {
		url += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Failure(models.LocalErrCode, err.Error())
	}

	resp, err := c.market.Do(req)
	if err != nil {
		return models.Failure(models.LocalErrCode, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Failure(models.LocalErrCode, err.Error())
	}

	res, err := models.ParseResult(raw)
	if err != nil {
		return models.Failure(models.LocalErrCode, err.Error())
	}
	if !res.OK() {
		c.logAPIError(res)
	}
	return res
}

func (c *Client) logAPIError(res models.Result) {
	if c.quiet && res.Code == 2 {
		// ожидаемый шум нестабильных эндпоинтов — не показываем юзеру
		logger.Debug("API Error %d: %s", res.Code, res.Msg)
		return
	}
	logger.Error("API Error %d: %s", res.Code, res.Msg)
}
