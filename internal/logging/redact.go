package logging

import "strings"

// RedactEmail keeps the first character of the local part and the whole
// domain and replaces the rest of the local part with a fixed mask, so
// "alice@example.com" becomes "a****@example.com". Strings without a local
// part are fully masked.
func RedactEmail(addr string) string {
	at := strings.LastIndex(addr, "@")
	if at <= 0 {
		return strings.Repeat("*", len(addr))
	}
	local := []rune(addr[:at])
	return string(local[0]) + "****" + addr[at:]
}
