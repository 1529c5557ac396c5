// Package callback encodes the data attached to inline buttons as
// "action:arg:arg". Telegram limits callback data to 64 bytes, so
// arguments are ids and short keys, never names.
package callback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	Catalog  = "catalog"
	Find     = "find"
	Tracking = "tracking"
	Question = "question"
	Category = "cat"
	List     = "list"
	Back     = "back"
	Buy      = "buy"
	Prices   = "prices"
	Admin    = "adm"
	Pick     = "pick"
)

const (
	separator = ":"
	maxLength = 64
)

var ErrMalformed = errors.New("malformed callback data")

type Data struct {
	Action string
	Args   []string
}

func Encode(action string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, action)
	for _, arg := range args {
		parts = append(parts, fmt.Sprint(arg))
	}
	return strings.Join(parts, separator)
}

func Parse(raw string) (Data, error) {
	if raw == "" || len(raw) > maxLength {
		return Data{}, ErrMalformed
	}
	parts := strings.Split(raw, separator)
	if parts[0] == "" {
		return Data{}, ErrMalformed
	}
	return Data{Action: parts[0], Args: parts[1:]}, nil
}

// Arg returns the i-th argument or "" when it is missing.
func (d Data) Arg(i int) string {
	if i < 0 || i >= len(d.Args) {
		return ""
	}
	return d.Args[i]
}

func (d Data) Int64(i int) (int64, error) {
	arg := d.Arg(i)
	if arg == "" {
		return 0, fmt.Errorf("%w: %q has no argument %d", ErrMalformed, d.Action, i)
	}
	v, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return v, nil
}
