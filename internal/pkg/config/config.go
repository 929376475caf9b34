// Package config provides typed access to application configuration.
package config

import (
	"io"
	"time"
)

// Config defines methods for retrieving configuration values of various
// types. Implementations handle missing keys and conversion failures by
// returning zero values; callers that cannot tolerate a zero value must
// check it explicitly at startup.
type Config interface {
	io.Closer

	// GetString retrieves the value for key as a string.
	GetString(key string) string

	// GetBool retrieves the value for key as a bool.
	GetBool(key string) bool

	// GetInt retrieves the value for key as an int.
	GetInt(key string) int

	// GetInt64 retrieves the value for key as an int64.
	GetInt64(key string) int64

	// GetFloat64 retrieves the value for key as a float64.
	GetFloat64(key string) float64

	// GetSecond retrieves the value for key as a duration in seconds.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the value for key as a duration in minutes.
	GetMinute(key string) time.Duration

	// GetHour retrieves the value for key as a duration in hours.
	GetHour(key string) time.Duration

	// GetBinary retrieves the value for key as bytes. The stored value is
	// base64 encoded.
	GetBinary(key string) []byte

	// GetArray retrieves the value for key as a string slice. The stored
	// value uses the format <element1>,<element2>,...
	GetArray(key string) []string
}
