// Package stringer contains the string helpers used for reading commands and captions
package stringer

import "strings"

// Whitespace is the set of characters a command reply is split on
const Whitespace = " \n\t\r"

// SplitMultiple splits v on any of the characters in splitChars, dropping empty parts
func SplitMultiple(v string, splitChars string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return strings.ContainsRune(splitChars, r)
	})
}

// FirstLine returns everything before the first newline, without a trailing carriage return
func FirstLine(v string) string {
	if idx := strings.IndexByte(v, '\n'); idx >= 0 {
		v = v[:idx]
	}
	return strings.TrimSuffix(v, "\r")
}
