package input

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding identifies the text encoding detected for an input buffer.
type Encoding int

const (
	// EncodingUTF8 is used when the buffer has no UTF-16 byte-order mark.
	EncodingUTF8 Encoding = iota

	// EncodingUTF16LE is used when the buffer starts with FF FE.
	EncodingUTF16LE

	// EncodingUTF16BE is used when the buffer starts with FE FF.
	EncodingUTF16BE
)

// String returns a human-readable name of the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "utf-8"
	case EncodingUTF16LE:
		return "utf-16le"
	case EncodingUTF16BE:
		return "utf-16be"
	default:
		return "unknown"
	}
}

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
)

// DetectEncoding inspects the leading byte-order mark of data.
func DetectEncoding(data []byte) Encoding {
	switch {
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingUTF16BE
	default:
		return EncodingUTF8
	}
}

// Decode converts data into a string using the encoding announced by its
// byte-order mark. The mark itself is never part of the result. Malformed
// sequences are replaced with U+FFFD rather than reported.
func Decode(data []byte) string {
	switch DetectEncoding(data) {
	case EncodingUTF16LE:
		return decodeUTF16LE(data[len(bomUTF16LE):])
	case EncodingUTF16BE:
		return decodeUTF16LE(swapPairs(data[len(bomUTF16BE):]))
	case EncodingUTF8:
		return decodeUTF8(data)
	default:
		return decodeUTF8(data)
	}
}

// swapPairs returns a copy of data with every byte pair swapped, turning
// big-endian UTF-16 into little-endian. A trailing odd byte is kept as is.
func swapPairs(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	for i := 0; i+1 < len(out); i += 2 {
		out[i], out[i+1] = out[i+1], out[i]
	}
	return out
}

func decodeUTF16LE(data []byte) string {
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		// The x/text decoder substitutes U+FFFD for bad units; an error here
		// only means a truncated trailing unit, so decode what is whole.
		out, _, _ = transform.Bytes(dec, data[:len(data)&^1])
		return string(out) + string(utf8.RuneError)
	}
	return string(out)
}

func decodeUTF8(data []byte) string {
	data = bytes.TrimPrefix(data, bomUTF8)
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}
