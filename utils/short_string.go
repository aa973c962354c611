package utils

import "fmt"

// ShortenLog trims long addresses for log lines.
func ShortenLog(addr string) string {
	indexCut := 8
	if len(addr) <= 8 {
		return addr
	} else if len(addr) <= 16 {
		indexCut = 4
	}
	return fmt.Sprintf("%s...%s", addr[:indexCut], addr[len(addr)-indexCut:])
}
