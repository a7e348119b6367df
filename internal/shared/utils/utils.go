// Утилитарные функции общего назначения
package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

func StrPtr(s string) *string {
	return &s
}

// SplitCSV разбивает строку вида "a, b,,c" на непустые элементы без пробелов.
// Используется для query-фильтров (?tags=id1,id2) и флагов CLI (--tags sweet,dessert).
func SplitCSV(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
