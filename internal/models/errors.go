package models

import "github.com/pkg/errors"

var (
	// ErrPositionNotFound — позиция с таким (positionId, symbol) не найдена
	// среди открытых.
	ErrPositionNotFound = errors.New("position not found")

	// ErrAlreadyClosed — повторное закрытие бумажной позиции.
	ErrAlreadyClosed = errors.New("position already closed")

	// ErrLimitExceeded — нарушен один из лимитов допуска (дневной лимит,
	// размер позиции, суммарная экспозиция, буфер баланса).
	ErrLimitExceeded = errors.New("position limits exceeded")

	// ErrInvalidPrice — текущая цена <= 0, сайзинг невозможен.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrAmbiguousClose — обе трактовки стороны закрывающего ордера
	// отвергнуты биржей.
	ErrAmbiguousClose = errors.New("both close-side interpretations rejected")
)
