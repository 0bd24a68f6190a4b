package regtext

const (
	// Regedit5Header is the required header line for .reg files in the
	// Unicode-oriented "Version 5.00" dialect.
	Regedit5Header = "Windows Registry Editor Version 5.00"

	// Regedit4Header is the required header line for the legacy
	// ANSI-oriented dialect.
	Regedit4Header = "REGEDIT4"

	// DeleteKeyPrefix marks a key for deletion (e.g., [-HKEY_LOCAL_MACHINE\...])
	DeleteKeyPrefix = "-"

	// DefaultValuePrefix marks the default (unnamed) value
	DefaultValuePrefix = "@="

	// Quote is the double-quote character for value names and string data
	Quote = "\""

	// Backslash is used for escaping and path separators
	Backslash = "\\"

	// EscapedQuote is the escaped double-quote sequence
	EscapedQuote = "\\\""

	// EscapedBackslash is the escaped backslash sequence
	EscapedBackslash = "\\\\"

	// CRLF is the line ending used by the .reg format
	CRLF = "\r\n"

	// DWORDPrefix identifies a DWORD value in .reg format
	DWORDPrefix = "dword:"

	// QWORDPrefix identifies a QWORD value written as a hex literal or a
	// variable placeholder. Decoded qwords are exported as hex(b).
	QWORDPrefix = "qword:"

	// HexPrefix identifies binary data in .reg format
	HexPrefix = "hex:"

	// HexTypeFormat is the format string for typed hex values: hex(%x):
	HexTypeFormat = "hex(%x):"

	// DeleteValueToken marks a value for deletion
	DeleteValueToken = "-"

	// VariableMarker delimits $name$ placeholders in dword/qword values
	VariableMarker = '$'

	// HexWrapColumn is the column past which hex byte streams wrap with a
	// backslash continuation
	HexWrapColumn = 75

	// HexContinuationIndent starts every wrapped hex line
	HexContinuationIndent = "  "
)

var (
	// UTF16LEBOM is the byte order mark for UTF-16 little-endian
	UTF16LEBOM = []byte{0xFF, 0xFE}

	// UTF8BOM is the byte order mark for UTF-8
	UTF8BOM = []byte{0xEF, 0xBB, 0xBF}
)
