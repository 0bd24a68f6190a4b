package regtext

import (
	"bytes"
	"encoding/binary"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"

	"github.com/gersonkurz/regkit/pkg/types"
)

// decodeText converts raw .reg file bytes to a UTF-8 string. A leading
// byte-order mark wins over the dialect default; without one, the legacy
// dialect decodes through the Windows-1252 system code page and the
// Unicode dialect through UTF-8.
func decodeText(data []byte, d Dialect) (string, error) {
	if bytes.HasPrefix(data, UTF16LEBOM) {
		return utf16LEToString(data[len(UTF16LEBOM):]), nil
	}
	if bytes.HasPrefix(data, UTF8BOM) {
		return string(data[len(UTF8BOM):]), nil
	}
	if d == Regedit4 {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", &types.Error{Kind: types.ErrKindFormat, Msg: "cannot decode legacy code page", Err: err}
		}
		return string(decoded), nil
	}
	return string(data), nil
}

// encodeText converts finished .reg text to the dialect's final byte
// encoding: Windows-1252 without a BOM for the legacy dialect, UTF-16LE
// with a leading FF FE mark for the current one.
func encodeText(text string, d Dialect) ([]byte, error) {
	if d == Regedit4 {
		encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, &types.Error{Kind: types.ErrKindFormat, Msg: "text not representable in legacy code page", Err: err}
		}
		return encoded, nil
	}
	return encodeUTF16LE(text, true), nil
}

// utf16LEToString converts UTF-16LE data to a Go string, dropping a
// trailing odd byte.
func utf16LEToString(data []byte) string {
	if len(data)%2 == 1 {
		data = data[:len(data)-1]
	}
	if len(data) == 0 {
		return ""
	}
	words := make([]uint16, len(data)/2)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	return string(utf16.Decode(words))
}

// encodeUTF16LE encodes a string to UTF-16LE, optionally with the BOM,
// pre-allocating the exact output size.
func encodeUTF16LE(s string, withBOM bool) []byte {
	words := utf16.Encode([]rune(s))
	size := len(words) * 2
	if withBOM {
		size += len(UTF16LEBOM)
	}
	buf := make([]byte, size)
	offset := 0
	if withBOM {
		copy(buf, UTF16LEBOM)
		offset = len(UTF16LEBOM)
	}
	for i, w := range words {
		binary.LittleEndian.PutUint16(buf[offset+i*2:], w)
	}
	return buf
}
