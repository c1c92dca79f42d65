package utils

import "errors"

// ----------------- listeners ------------------
var (
	ErrEmptyGoldenKey = errors.New("golden key is empty")
	ErrEmptyGreeting  = errors.New("greeting message is empty")
	ErrEmptyMail      = errors.New("mail is empty")
	ErrEmptyPassword  = errors.New("password is empty")
)

// ----------------- catalog ------------------
var (
	ErrLotNotFound  = errors.New("lot not found")
	ErrEmptyCatalog = errors.New("catalog snapshot is empty")
)

// ----------------- notifications ------------------
var (
	ErrTargetNotConfigured = errors.New("notification target is not configured")
)

// ----------------- cache ------------------
var (
	ErrCacheMiss = errors.New("cache miss")
)

// ----------------- script runner ------------------
var (
	ErrScriptNotFound   = errors.New("script not found")
	ErrScriptNotRunning = errors.New("script is not running")
)
