package cmd

import (
	"strconv"
	"strings"
)

// parseValue turns a command-line value into the type viper should store:
// booleans and integers are typed, anything else stays a string.
func parseValue(raw string) any {
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && strings.Contains(raw, ".") {
		return f
	}
	return raw
}
