package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var int64Slice = reflect.TypeOf([]int64(nil))

// adminIdsHook decodes an id list that arrives as one string, as environment
// overrides do.
func adminIdsHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != int64Slice {
		return data, nil
	}
	return ParseAdminIds(data.(string))
}

// ParseAdminIds parses a comma, space or semicolon separated list of telegram user ids.
func ParseAdminIds(raw string) ([]int64, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})

	ids := make([]int64, 0, len(fields))
	for _, field := range fields {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin id %q: %w", field, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
