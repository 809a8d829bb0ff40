package domain

import "errors"

// ErrInvalidAddress is returned when an address identifier fails format validation.
// It is recoverable: callers skip the address and continue.
var ErrInvalidAddress = errors.New("invalid address format")

// ErrNotFound is returned by a RecordStore when no record exists for a key.
var ErrNotFound = errors.New("record not found")

// ErrCorruptCache is returned when a cached record exists but cannot be decoded.
var ErrCorruptCache = errors.New("corrupt cache record")

// ErrMissingCache is returned in offline mode when a record is not cached and
// lenient mode is off.
var ErrMissingCache = errors.New("record missing from cache")

// ErrAbsent marks a record skipped in lenient offline mode.
// The expander treats it as "skip this node", never as a failure.
var ErrAbsent = errors.New("record absent")

// ErrQuotaExceeded is returned when the provider reports rate-limit or quota exhaustion.
// It aborts the whole run; there is no retry.
var ErrQuotaExceeded = errors.New("provider quota exceeded")

// ErrProvider is returned for any other structured provider error.
var ErrProvider = errors.New("provider error")
