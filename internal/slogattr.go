package internal

import "log/slog"

// Hex16 formats a 16-bit register value as a fixed-width hex string.
func Hex16(v uint16) string {
	const hexdigits = "0123456789abcdef"
	var b [6]byte
	b[0], b[1] = '0', 'x'
	for i := 0; i < 4; i++ {
		b[2+i] = hexdigits[v>>(12-4*i)&0xf]
	}
	return string(b[:])
}

// SlogHex16 returns a slog.Attr rendering a 16-bit register value in hex.
func SlogHex16(key string, v uint16) slog.Attr {
	return slog.String(key, Hex16(v))
}
