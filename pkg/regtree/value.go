package regtree

import (
	"bytes"
	"encoding/binary"
	"unicode/utf16"

	"github.com/gersonkurz/regkit/pkg/types"
)

// UTF16CodeUnitSize is the size of a UTF-16 code unit in bytes.
const UTF16CodeUnitSize = 2

// Value is a typed registry datum. The payload is kept in the registry's
// native on-disk encoding: UTF-16LE for string kinds, little-endian for the
// integer kinds. Type and payload are only ever assigned together, so a
// reader never observes a half-updated value.
type Value struct {
	name    string
	typ     types.RegType
	data    []byte
	removed bool
}

// NewValue creates an empty, untyped value with the given display name.
// The empty name denotes the key's default value.
func NewValue(name string) *Value {
	return &Value{name: name, typ: types.REG_UNKNOWN}
}

// NewValueFromBytes creates a value from raw typed bytes, e.g. as read from
// the live registry or decoded by the parser. The slice is copied.
func NewValueFromBytes(name string, typ types.RegType, data []byte) *Value {
	v := &Value{name: name}
	v.SetBinary(typ, data)
	return v
}

// Name returns the display name of the value ("" for the default value).
func (v *Value) Name() string { return v.name }

// Type returns the value's registry type tag.
func (v *Value) Type() types.RegType { return v.typ }

// IsDefaultValue reports whether this is the key's unnamed default value.
func (v *Value) IsDefaultValue() bool { return v.name == "" }

// Removed reports whether the value is marked for deletion in a diff tree.
func (v *Value) Removed() bool { return v.removed }

// MarkRemoved flags the value for deletion.
func (v *Value) MarkRemoved() { v.removed = true }

// Equal reports whether two values carry the same type tag and payload.
// Names and remove-flags are not compared.
func (v *Value) Equal(other *Value) bool {
	return v.typ == other.typ && bytes.Equal(v.data, other.data)
}

// clone returns an independent copy of the value.
func (v *Value) clone() *Value {
	c := *v
	c.data = append([]byte(nil), v.data...)
	return &c
}

// -----------------------------------------------------------------------------
// Setters. Each assigns type and payload in one step.
// -----------------------------------------------------------------------------

// SetNone clears the value to REG_NONE with an empty payload.
func (v *Value) SetNone() {
	v.typ = types.REG_NONE
	v.data = nil
}

// SetString stores a REG_SZ value, transcoding to NUL-terminated UTF-16LE.
func (v *Value) SetString(s string) {
	v.typ = types.REG_SZ
	v.data = encodeUTF16LEZeroTerminated(s)
}

// SetExpandString stores a REG_EXPAND_SZ value.
func (v *Value) SetExpandString(s string) {
	v.typ = types.REG_EXPAND_SZ
	v.data = encodeUTF16LEZeroTerminated(s)
}

// SetMultiString stores a REG_MULTI_SZ value as consecutive NUL-terminated
// UTF-16LE strings followed by a double NUL terminator.
func (v *Value) SetMultiString(values []string) {
	v.typ = types.REG_MULTI_SZ
	v.data = encodeMultiString(values)
}

// SetDWORD stores a 32-bit little-endian integer.
func (v *Value) SetDWORD(n uint32) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, n)
	v.typ = types.REG_DWORD
	v.data = buf
}

// SetQWORD stores a 64-bit little-endian integer.
func (v *Value) SetQWORD(n uint64) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, n)
	v.typ = types.REG_QWORD
	v.data = buf
}

// SetBinary stores raw bytes under an explicit type tag. The slice is copied.
func (v *Value) SetBinary(typ types.RegType, data []byte) {
	v.typ = typ
	v.data = append([]byte(nil), data...)
}

// SetEscapedDWORD stores the literal placeholder text of an undecoded
// dword value (e.g. "$port$"). Used only during text import.
func (v *Value) SetEscapedDWORD(text string) {
	v.typ = types.REG_ESCAPED_DWORD
	v.data = encodeUTF16LEZeroTerminated(text)
}

// SetEscapedQWORD is the qword counterpart of SetEscapedDWORD.
func (v *Value) SetEscapedQWORD(text string) {
	v.typ = types.REG_ESCAPED_QWORD
	v.data = encodeUTF16LEZeroTerminated(text)
}

// -----------------------------------------------------------------------------
// Getters. On type mismatch or undersized payload the caller's default is
// returned; no getter fails.
// -----------------------------------------------------------------------------

// String decodes a REG_SZ/REG_EXPAND_SZ payload (or an escaped placeholder)
// to UTF-8, or returns def on mismatch.
func (v *Value) String(def string) string {
	switch v.typ {
	case types.REG_SZ, types.REG_EXPAND_SZ, types.REG_ESCAPED_DWORD, types.REG_ESCAPED_QWORD:
		return decodeUTF16LEZeroTerminated(v.data)
	default:
		return def
	}
}

// MultiString decodes a REG_MULTI_SZ payload, or returns def on mismatch.
func (v *Value) MultiString(def []string) []string {
	if v.typ != types.REG_MULTI_SZ {
		return def
	}
	return decodeMultiString(v.data)
}

// DWORD returns the 32-bit payload, or def on mismatch or short data.
func (v *Value) DWORD(def uint32) uint32 {
	if v.typ != types.REG_DWORD || len(v.data) < 4 {
		return def
	}
	return binary.LittleEndian.Uint32(v.data)
}

// QWORD returns the 64-bit payload, or def on mismatch or short data.
func (v *Value) QWORD(def uint64) uint64 {
	if v.typ != types.REG_QWORD || len(v.data) < 8 {
		return def
	}
	return binary.LittleEndian.Uint64(v.data)
}

// Binary returns a copy of the raw payload, or def for an unset value.
func (v *Value) Binary(def []byte) []byte {
	if v.typ == types.REG_UNKNOWN {
		return def
	}
	return append([]byte(nil), v.data...)
}

// Bytes returns the native payload without copying. Callers must not
// mutate the result.
func (v *Value) Bytes() []byte { return v.data }

// -----------------------------------------------------------------------------
// UTF-16LE codec helpers
// -----------------------------------------------------------------------------

// encodeUTF16LEZeroTerminated encodes a string to UTF-16LE with a NUL
// terminator, pre-allocating the exact size in a single pass.
func encodeUTF16LEZeroTerminated(s string) []byte {
	words := utf16.Encode([]rune(s))
	buf := make([]byte, (len(words)+1)*UTF16CodeUnitSize)
	for i, w := range words {
		binary.LittleEndian.PutUint16(buf[i*UTF16CodeUnitSize:], w)
	}
	// Terminator is already zero from make()
	return buf
}

// decodeUTF16LEZeroTerminated decodes UTF-16LE bytes, stopping at the first
// NUL word if present.
func decodeUTF16LEZeroTerminated(data []byte) string {
	if len(data)%UTF16CodeUnitSize == 1 {
		data = data[:len(data)-1]
	}
	words := make([]uint16, 0, len(data)/UTF16CodeUnitSize)
	for i := 0; i+1 < len(data); i += UTF16CodeUnitSize {
		w := binary.LittleEndian.Uint16(data[i:])
		if w == 0 {
			break
		}
		words = append(words, w)
	}
	return string(utf16.Decode(words))
}

// encodeMultiString encodes strings as consecutive NUL-terminated UTF-16LE
// strings plus a trailing double NUL.
func encodeMultiString(values []string) []byte {
	var buf []byte
	for _, s := range values {
		buf = append(buf, encodeUTF16LEZeroTerminated(s)...)
	}
	return append(buf, 0x00, 0x00)
}

// decodeMultiString splits a REG_MULTI_SZ payload on NUL words.
func decodeMultiString(data []byte) []string {
	var out []string
	var words []uint16
	for i := 0; i+1 < len(data); i += UTF16CodeUnitSize {
		w := binary.LittleEndian.Uint16(data[i:])
		if w == 0 {
			if len(words) == 0 {
				break // double terminator
			}
			out = append(out, string(utf16.Decode(words)))
			words = words[:0]
			continue
		}
		words = append(words, w)
	}
	if len(words) > 0 {
		out = append(out, string(utf16.Decode(words)))
	}
	return out
}
