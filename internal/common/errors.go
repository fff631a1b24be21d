// Package common defines shared constants and sentinel errors used across
// the client layers. Callers should use errors.Is to match these values.
package common

import "errors"

// ErrCorruptedValue is returned when a stored value cannot be decrypted or
// decoded.
var ErrCorruptedValue = errors.New("corrupted stored value")
