// Package regtext implements the textual ".reg" exchange format: a
// character-level state-machine parser that builds a regtree, and the
// exporters that serialize a regtree back to either dialect.
package regtext

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gersonkurz/regkit/pkg/regtree"
	"github.com/gersonkurz/regkit/pkg/types"
)

// Dialect selects one of the two historical .reg formats.
type Dialect int

const (
	// Regedit4 is the legacy ANSI-oriented "REGEDIT4" dialect, encoded in
	// the 8-bit system code page with no byte-order mark.
	Regedit4 Dialect = iota
	// Regedit5 is the current Unicode-oriented dialect, encoded as
	// UTF-16LE with a leading byte-order mark.
	Regedit5
)

// Header returns the exact header line expected by the dialect.
func (d Dialect) Header() string {
	if d == Regedit4 {
		return Regedit4Header
	}
	return Regedit5Header
}

func (d Dialect) String() string {
	if d == Regedit4 {
		return "REGEDIT4"
	}
	return "Windows Registry Editor Version 5.00"
}

// state is the closed set of parser states. Each input character is
// dispatched to the handler of the active state, which consumes it and
// either stays, transitions, or raises a syntax error.
type state int

const (
	stateHeader state = iota // accumulating the mandatory header line
	stateLineStart           // at line level, before any token
	stateKeyPath             // inside [...] with bracket depth tracking
	stateLineEnd             // key/value finished, expecting end of line
	stateValueName           // inside the quoted value name
	stateValueNameEscaped    // backslash escape inside the value name
	stateExpectEquals        // between value name and '='
	stateValueData           // first character of the payload
	stateStringValue         // inside a quoted REG_SZ payload
	stateStringEscaped       // backslash escape inside the string payload
	stateValueKind           // accumulating a type prefix up to ':'
	stateDwordHex            // hex digits of a dword: literal
	stateQwordHex            // hex digits of a qword: literal
	stateVariable            // $name$ placeholder body
	stateHexBytes            // comma-separated hex pairs
	stateHexContinuation     // after the trailing backslash, expecting CRLF
	stateComment             // skipping to end of line
)

// Parser is a .reg text importer bound to one dialect. A Parser may be
// reused; each Parse call is an independent run.
type Parser struct {
	dialect Dialect
	opts    types.ImportOptions

	eng   *engine
	state state

	root       *regtree.Key
	currentKey *regtree.Key

	valueName   string
	bracketTier int
	hexType     types.RegType
	hexData     []byte
	afterCont   bool // line position right after a hex continuation
	contSawCR   bool
	varKind     types.RegType // REG_DWORD or REG_QWORD placeholder target
}

// NewParser creates a parser for the given dialect.
func NewParser(d Dialect, opts types.ImportOptions) *Parser {
	return &Parser{dialect: d, opts: opts}
}

// Parse decodes raw file bytes (BOM-aware) and parses them.
func (p *Parser) Parse(data []byte) (*regtree.Key, error) {
	text, err := decodeText(data, p.dialect)
	if err != nil {
		return nil, err
	}
	return p.parse("", text)
}

// ParseString parses already-decoded .reg text.
func (p *Parser) ParseString(text string) (*regtree.Key, error) {
	return p.parse("", text)
}

// ParseFile reads path, detects the dialect from the header line, and
// parses the content. Syntax errors carry the file name.
func ParseFile(path string, opts types.ImportOptions) (*regtree.Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.Error{Kind: types.ErrKindNotFound, Msg: "cannot read " + path, Err: err}
	}
	dialect, err := DetectDialect(data)
	if err != nil {
		return nil, err
	}
	p := NewParser(dialect, opts)
	text, err := decodeText(data, dialect)
	if err != nil {
		return nil, err
	}
	return p.parse(path, text)
}

// DetectDialect sniffs the header line of raw .reg bytes.
func DetectDialect(data []byte) (Dialect, error) {
	for _, d := range []Dialect{Regedit5, Regedit4} {
		text, err := decodeText(data, d)
		if err != nil {
			continue
		}
		if hasHeaderLine(text, d.Header()) {
			return d, nil
		}
	}
	return 0, &types.Error{Kind: types.ErrKindFormat, Msg: "unrecognized .reg header"}
}

func hasHeaderLine(text, header string) bool {
	if len(text) < len(header) || text[:len(header)] != header {
		return false
	}
	rest := text[len(header):]
	return rest == "" || rest[0] == '\r' || rest[0] == '\n'
}

func (p *Parser) parse(file, text string) (*regtree.Key, error) {
	// A missing final newline would leave the last assignment uncommitted.
	if len(text) == 0 || text[len(text)-1] != '\n' {
		text += "\n"
	}
	p.eng = newEngine(file, text)
	p.state = stateHeader
	p.root = regtree.NewRoot()
	p.currentKey = nil
	p.valueName = ""
	p.hexData = nil

	if err := p.eng.run(p.step); err != nil {
		return nil, err
	}
	if p.state != stateLineStart && p.state != stateComment {
		return nil, p.eng.errorf("unexpected end of input")
	}
	return p.root.PromoteSingleChild(), nil
}

// step dispatches one character to the active state handler.
func (p *Parser) step(ch rune) error {
	switch p.state {
	case stateHeader:
		return p.stepHeader(ch)
	case stateLineStart:
		return p.stepLineStart(ch)
	case stateKeyPath:
		return p.stepKeyPath(ch)
	case stateLineEnd:
		return p.stepLineEnd(ch)
	case stateValueName:
		return p.stepValueName(ch)
	case stateValueNameEscaped:
		p.eng.append(ch)
		p.state = stateValueName
		return nil
	case stateExpectEquals:
		return p.stepExpectEquals(ch)
	case stateValueData:
		return p.stepValueData(ch)
	case stateStringValue:
		return p.stepStringValue(ch)
	case stateStringEscaped:
		p.eng.append(ch)
		p.state = stateStringValue
		return nil
	case stateValueKind:
		return p.stepValueKind(ch)
	case stateDwordHex:
		return p.stepIntegerHex(ch, 8)
	case stateQwordHex:
		return p.stepIntegerHex(ch, 16)
	case stateVariable:
		return p.stepVariable(ch)
	case stateHexBytes:
		return p.stepHexBytes(ch)
	case stateHexContinuation:
		return p.stepHexContinuation(ch)
	case stateComment:
		if ch == '\n' {
			p.state = stateLineStart
		}
		return nil
	}
	return p.eng.errorf("internal: unhandled parser state %d", p.state)
}

func (p *Parser) stepHeader(ch rune) error {
	if ch == '\r' {
		return nil
	}
	if ch != '\n' {
		p.eng.append(ch)
		return nil
	}
	if got := p.eng.tokenText(); got != p.dialect.Header() {
		return p.eng.errorf("invalid header %q, expected %q", got, p.dialect.Header())
	}
	p.eng.clear()
	p.state = stateLineStart
	return nil
}

func (p *Parser) stepLineStart(ch rune) error {
	switch {
	case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
		return nil
	case ch == '[':
		p.eng.clear()
		p.bracketTier = 0
		p.state = stateKeyPath
		return nil
	case ch == '@':
		if p.currentKey == nil {
			return p.eng.errorf("value assignment outside of a key")
		}
		p.valueName = ""
		p.state = stateExpectEquals
		return nil
	case ch == '"':
		if p.currentKey == nil {
			return p.eng.errorf("value assignment outside of a key")
		}
		p.eng.clear()
		p.state = stateValueName
		return nil
	case p.isCommentChar(ch):
		p.state = stateComment
		return nil
	}
	return p.eng.errorf("unexpected character %q at start of line", ch)
}

func (p *Parser) stepKeyPath(ch rune) error {
	switch ch {
	case '[':
		// Nested brackets inside a key name are tracked so they do not
		// close the declaration prematurely.
		p.bracketTier++
		p.eng.append(ch)
		return nil
	case ']':
		if p.bracketTier > 0 {
			p.bracketTier--
			p.eng.append(ch)
			return nil
		}
		p.currentKey = p.root.FindOrCreateKey(p.eng.tokenText())
		p.eng.clear()
		p.state = stateLineEnd
		return nil
	case '\n':
		return p.eng.errorf("unterminated key path")
	default:
		p.eng.append(ch)
		return nil
	}
}

func (p *Parser) stepLineEnd(ch rune) error {
	switch {
	case ch == ' ' || ch == '\t' || ch == '\r':
		return nil
	case ch == '\n':
		p.state = stateLineStart
		return nil
	case p.isCommentChar(ch):
		p.state = stateComment
		return nil
	}
	return p.eng.errorf("unexpected character %q after end of declaration", ch)
}

func (p *Parser) stepValueName(ch rune) error {
	switch ch {
	case '\\':
		// A backslash escapes any following character verbatim.
		p.state = stateValueNameEscaped
		return nil
	case '"':
		p.valueName = p.eng.tokenText()
		p.eng.clear()
		p.state = stateExpectEquals
		return nil
	case '\n':
		return p.eng.errorf("unterminated value name")
	default:
		p.eng.append(ch)
		return nil
	}
}

func (p *Parser) stepExpectEquals(ch rune) error {
	if ch == '=' {
		p.eng.clear()
		p.state = stateValueData
		return nil
	}
	return p.eng.errorf("expected '=' after value name, got %q", ch)
}

func (p *Parser) stepValueData(ch rune) error {
	switch {
	case ch == ' ' || ch == '\t':
		return nil
	case ch == '-':
		p.currentKey.FindOrCreateValue(p.valueName).MarkRemoved()
		p.state = stateLineEnd
		return nil
	case ch == '"':
		p.eng.clear()
		p.state = stateStringValue
		return nil
	case (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z'):
		p.eng.clear()
		p.eng.append(ch)
		p.state = stateValueKind
		return nil
	}
	return p.eng.errorf("unexpected character %q in value data", ch)
}

func (p *Parser) stepStringValue(ch rune) error {
	switch ch {
	case '\\':
		p.state = stateStringEscaped
		return nil
	case '"':
		p.currentKey.FindOrCreateValue(p.valueName).SetString(p.eng.tokenText())
		p.eng.clear()
		p.state = stateLineEnd
		return nil
	case '\n':
		return p.eng.errorf("unterminated string value")
	default:
		p.eng.append(ch)
		return nil
	}
}

func (p *Parser) stepValueKind(ch rune) error {
	if ch == ':' {
		kind := p.eng.tokenText()
		p.eng.clear()
		switch {
		case kind == "dword":
			p.state = stateDwordHex
			return nil
		case kind == "qword":
			p.state = stateQwordHex
			return nil
		case kind == "hex":
			p.hexType = types.REG_BINARY
			p.hexData = nil
			p.afterCont = false
			p.state = stateHexBytes
			return nil
		case len(kind) > 5 && kind[:4] == "hex(" && kind[len(kind)-1] == ')':
			code, err := strconv.ParseUint(kind[4:len(kind)-1], 16, 32)
			if err != nil {
				return p.eng.errorf("invalid hex type code in %q", kind)
			}
			p.hexType = types.RegType(code)
			p.hexData = nil
			p.afterCont = false
			p.state = stateHexBytes
			return nil
		}
		return p.eng.errorf("unknown value type %q", kind)
	}
	if ch == '\n' {
		return p.eng.errorf("incomplete value type %q", p.eng.tokenText())
	}
	p.eng.append(ch)
	return nil
}

// stepIntegerHex handles the hex digits of dword:/qword: literals.
// maxDigits is 8 for dword and 16 for qword.
func (p *Parser) stepIntegerHex(ch rune, maxDigits int) error {
	switch {
	case isHexDigit(ch):
		if p.eng.tokenLen() >= maxDigits {
			return p.eng.errorf("integer literal longer than %d hex digits", maxDigits)
		}
		p.eng.append(ch)
		return nil
	case ch == VariableMarker:
		if !p.opts.AllowVariableNames {
			return p.eng.errorf("variable placeholders are not enabled")
		}
		if p.eng.tokenLen() != 0 {
			return p.eng.errorf("placeholder must replace the whole literal")
		}
		if p.state == stateDwordHex {
			p.varKind = types.REG_DWORD
		} else {
			p.varKind = types.REG_QWORD
		}
		p.state = stateVariable
		return nil
	case ch == ' ' || ch == '\t':
		if p.opts.IgnoreWhitespace {
			return nil
		}
		return p.eng.errorf("unexpected whitespace in integer literal")
	case ch == '\r':
		return nil
	case ch == '\n' || p.isCommentChar(ch):
		if err := p.commitInteger(maxDigits); err != nil {
			return err
		}
		if ch == '\n' {
			p.state = stateLineStart
		} else {
			p.state = stateComment
		}
		return nil
	}
	return p.eng.errorf("invalid hex digit %q", ch)
}

func (p *Parser) commitInteger(maxDigits int) error {
	text := p.eng.tokenText()
	if text == "" {
		return p.eng.errorf("missing hex digits in integer literal")
	}
	v := p.currentKey.FindOrCreateValue(p.valueName)
	if maxDigits == 8 {
		n, err := strconv.ParseUint(text, 16, 32)
		if err != nil {
			return p.eng.errorf("invalid dword literal %q", text)
		}
		v.SetDWORD(uint32(n))
	} else {
		n, err := strconv.ParseUint(text, 16, 64)
		if err != nil {
			return p.eng.errorf("invalid qword literal %q", text)
		}
		v.SetQWORD(n)
	}
	p.eng.clear()
	return nil
}

func (p *Parser) stepVariable(ch rune) error {
	switch ch {
	case VariableMarker:
		literal := fmt.Sprintf("%c%s%c", VariableMarker, p.eng.tokenText(), VariableMarker)
		v := p.currentKey.FindOrCreateValue(p.valueName)
		if p.varKind == types.REG_DWORD {
			v.SetEscapedDWORD(literal)
		} else {
			v.SetEscapedQWORD(literal)
		}
		p.eng.clear()
		p.state = stateLineEnd
		return nil
	case '\n':
		return p.eng.errorf("unterminated variable placeholder")
	default:
		p.eng.append(ch)
		return nil
	}
}

func (p *Parser) stepHexBytes(ch rune) error {
	switch {
	case isHexDigit(ch):
		p.afterCont = false
		if p.eng.tokenLen() >= 2 {
			return p.eng.errorf("hex byte longer than two digits")
		}
		p.eng.append(ch)
		return nil
	case ch == ',':
		return p.commitHexByte(true)
	case ch == '\\':
		p.state = stateHexContinuation
		p.contSawCR = false
		return nil
	case ch == ' ' || ch == '\t':
		// Continuation lines legitimately start with indentation even in
		// strict mode; anywhere else requires the whitespace option.
		if p.opts.IgnoreWhitespace || p.afterCont {
			return nil
		}
		return p.eng.errorf("unexpected whitespace in hex data")
	case ch == '\r':
		return nil
	case ch == '\n' || p.isCommentChar(ch):
		if err := p.commitHexByte(false); err != nil {
			return err
		}
		v := p.currentKey.FindOrCreateValue(p.valueName)
		v.SetBinary(p.hexType, p.hexData)
		p.hexData = nil
		if ch == '\n' {
			p.state = stateLineStart
		} else {
			p.state = stateComment
		}
		return nil
	}
	return p.eng.errorf("invalid character %q in hex data", ch)
}

// commitHexByte converts the pending 1-2 digit token to a byte. A comma
// demands a preceding digit; end of value tolerates an empty tail.
func (p *Parser) commitHexByte(afterComma bool) error {
	text := p.eng.tokenText()
	if text == "" {
		if afterComma {
			return p.eng.errorf("expected hex byte before ','")
		}
		return nil
	}
	n, err := strconv.ParseUint(text, 16, 8)
	if err != nil {
		return p.eng.errorf("invalid hex byte %q", text)
	}
	p.hexData = append(p.hexData, byte(n))
	p.eng.clear()
	return nil
}

func (p *Parser) stepHexContinuation(ch rune) error {
	switch ch {
	case '\r':
		p.contSawCR = true
		return nil
	case '\n':
		// The format requires CRLF after a continuation backslash.
		if !p.contSawCR {
			return p.eng.errorf("hex continuation requires CRLF line ending")
		}
		p.afterCont = true
		p.state = stateHexBytes
		return nil
	}
	return p.eng.errorf("unexpected character %q after hex continuation", ch)
}

func (p *Parser) isCommentChar(ch rune) bool {
	switch ch {
	case ';':
		return p.opts.AllowSemicolonComments
	case '#':
		return p.opts.AllowHashComments
	}
	return false
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
