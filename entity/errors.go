package entity

import (
	"errors"
)

// 协调计算的统一错误类型
// 说明：调用方通过errors.Is判断错误类别，具体上下文由fmt.Errorf("...: %w")包装提供
var (
	ErrSignalNotFound      = errors.New("signal not found")
	ErrCorridorNotFound    = errors.New("corridor not found")
	ErrCorridorTooShort    = errors.New("at least 2 signals required")
	ErrCorridorTooLong     = errors.New("too many signals in corridor")
	ErrInsufficientSignals = errors.New("insufficient valid signals")
	ErrInvalidSpeedRange   = errors.New("invalid speed range")
	ErrInvalidTiming       = errors.New("invalid signal timing")
	ErrDuplicateSignal     = errors.New("signal already registered")
	ErrDuplicateCorridor   = errors.New("corridor already registered")
	ErrCorridorMembership  = errors.New("signal is referenced by a corridor")
)
