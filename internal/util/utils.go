package util

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Ucfirst upper-cases the first rune of s. Product names are stored in this
// form no matter how the client spelled them.
func Ucfirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	up := unicode.ToUpper(r)
	if up == r {
		return s
	}
	return string(up) + s[size:]
}

func ParseUintParam(s string) (uint, bool) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}
