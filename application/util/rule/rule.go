package rule

const (
	CR   byte = '\r'
	LF   byte = '\n'
	SP   byte = ' '
	HTAB byte = '\t'
)

var (
	OWS  = []byte{SP, HTAB}
	CRLF = []byte{CR, LF}
)

func IsAlpha(r rune) bool { return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') }
func IsDigit(r rune) bool { return '0' <= r && r <= '9' }

func IsHex(r rune) bool {
	return IsDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

// IsDigits reports whether s is a non-empty run of DIGIT.
func IsDigits(s string) bool {
	if len(s) == 0 {
		return false
	}
	for idx := 0; idx < len(s); idx++ {
		if !IsDigit(rune(s[idx])) {
			return false
		}
	}
	return true
}
