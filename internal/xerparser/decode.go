package xerparser

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"
)

// Decode turns raw XER bytes into text. Invalid UTF-8 is replaced with
// U+FFFD; a byte order mark, if any, is kept as-is.
func Decode(data []byte) (string, error) {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode content: %w", err)
	}
	return string(decoded), nil
}

// DecodeFile reads the whole file at path and decodes it with Decode.
func DecodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return Decode(data)
}
