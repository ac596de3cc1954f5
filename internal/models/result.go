package models

import (
	"bytes"
	"encoding/json"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// LocalErrCode — локальный код ошибки (транспорт/декодирование на стороне
// клиента), чтобы отличать от кодов самой биржи.
const LocalErrCode = -1

// Result — нормализованный конверт ответа Bitunix {code, data, msg}.
// code == 0 означает успех, всё остальное — ошибка биржи.
type Result struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
	Msg  string          `json:"msg"`
}

func (r Result) OK() bool { return r.Code == 0 }

// EmptyData — в data нет полезной нагрузки: отсутствует, null, [] или {}.
// Нестабильные эндпоинты отвечают code 0 с пустым телом, для вызывающих
// это равносильно отказу.
func (r Result) EmptyData() bool {
	switch string(bytes.TrimSpace(r.Data)) {
	case "", "null", "[]", "{}":
		return true
	}
	return false
}

// DecodeData разбирает поле data в v.
func (r Result) DecodeData(v any) error {
	if len(r.Data) == 0 {
		return errors.New("result: empty data")
	}
	return sonic.Unmarshal(r.Data, v)
}

// Failure строит локальный результат-ошибку.
func Failure(code int, msg string) Result {
	return Result{Code: code, Msg: msg}
}

// ParseResult разбирает тело ответа. Голый список или не-объект
// заворачивается в {code:0, data:<body>, msg:"Success"} — часть публичных
// эндпоинтов отвечает без конверта. Невалидный JSON (html страницы ошибок
// прокси и т.п.) — ошибка декодирования, не успех.
func ParseResult(body []byte) (Result, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Result{}, errors.New("empty response body")
	}
	if trimmed[0] != '{' {
		if !sonic.Valid(trimmed) {
			return Result{}, errors.Errorf("malformed response body: %.64s", trimmed)
		}
		return Result{Code: 0, Data: json.RawMessage(trimmed), Msg: "Success"}, nil
	}

	var res Result
	if err := sonic.Unmarshal(trimmed, &res); err != nil {
		return Result{}, err
	}
	return res, nil
}
