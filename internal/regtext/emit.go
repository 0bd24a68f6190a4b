package regtext

import (
	"fmt"
	"strings"

	"github.com/gersonkurz/regkit/pkg/regtree"
	"github.com/gersonkurz/regkit/pkg/types"
)

// Export serializes a tree to the final byte encoding of the dialect.
func Export(root *regtree.Key, d Dialect, opts types.ExportOptions) ([]byte, error) {
	return encodeText(EmitText(root, d, opts), d)
}

// EmitText serializes a tree to .reg text in the given dialect. Output is
// deterministic: exporting the same tree twice yields identical text.
func EmitText(root *regtree.Key, d Dialect, opts types.ExportOptions) string {
	var b strings.Builder
	b.WriteString(d.Header())
	b.WriteString(CRLF)
	b.WriteString(CRLF)
	regtree.Export(root, opts, &textVisitor{b: &b})
	return b.String()
}

// textVisitor is the text back end of the shared tree walk. Both dialects
// use it; they differ only in header text and final-byte encoding.
type textVisitor struct {
	b *strings.Builder
}

func (t *textVisitor) VisitKey(k *regtree.Key) bool {
	fmt.Fprintf(t.b, "[%s]%s", k.Path(), CRLF)
	return true
}

func (t *textVisitor) VisitRemovedKey(k *regtree.Key) bool {
	fmt.Fprintf(t.b, "[%s%s]%s%s", DeleteKeyPrefix, k.Path(), CRLF, CRLF)
	return true
}

func (t *textVisitor) LeaveKey(k *regtree.Key) {
	t.b.WriteString(CRLF)
}

func (t *textVisitor) VisitValue(k *regtree.Key, v *regtree.Value) bool {
	name := namePart(v)
	t.b.WriteString(name)
	if v.Removed() {
		t.b.WriteString(DeleteValueToken)
		t.b.WriteString(CRLF)
		return true
	}
	switch v.Type() {
	case types.REG_SZ:
		t.b.WriteString(Quote)
		t.b.WriteString(escapeString(v.String("")))
		t.b.WriteString(Quote)
	case types.REG_DWORD:
		fmt.Fprintf(t.b, "%s%08x", DWORDPrefix, v.DWORD(0))
	case types.REG_ESCAPED_DWORD:
		t.b.WriteString(DWORDPrefix)
		t.b.WriteString(v.String(""))
	case types.REG_ESCAPED_QWORD:
		t.b.WriteString(QWORDPrefix)
		t.b.WriteString(v.String(""))
	default:
		prefix := HexPrefix
		if v.Type() != types.REG_BINARY {
			prefix = fmt.Sprintf(HexTypeFormat, uint32(v.Type()))
		}
		t.b.WriteString(prefix)
		writeHexBytes(t.b, len(name)+len(prefix), v.Bytes())
	}
	t.b.WriteString(CRLF)
	return true
}

// namePart renders "@=" for the default value and the quoted, escaped
// name followed by '=' for everything else.
func namePart(v *regtree.Value) string {
	if v.IsDefaultValue() {
		return DefaultValuePrefix
	}
	return Quote + escapeString(v.Name()) + Quote + "="
}

// writeHexBytes emits comma-separated hex pairs, soft-wrapping with a
// continuation backslash once the line approaches HexWrapColumn.
func writeHexBytes(b *strings.Builder, column int, data []byte) {
	for i, by := range data {
		if column+3 > HexWrapColumn {
			b.WriteString(Backslash)
			b.WriteString(CRLF)
			b.WriteString(HexContinuationIndent)
			column = len(HexContinuationIndent)
		}
		fmt.Fprintf(b, "%02x", by)
		column += 2
		if i < len(data)-1 {
			b.WriteString(",")
			column++
		}
	}
}

// escapeString escapes backslashes and quotes for .reg text.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, Backslash, EscapedBackslash)
	s = strings.ReplaceAll(s, Quote, EscapedQuote)
	return s
}
