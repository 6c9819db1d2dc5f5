package core

// encoding.go resolves the text encoding of the raw input.
//
// Candidates are tried in order and the first one that decodes cleanly to text
// with at least one visible character wins. golang.org/x/text decoders replace
// undecodable input with U+FFFD instead of failing, so a candidate is treated as
// failed when its output holds more replacement characters than the raw bytes
// already contained as UTF-8.

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	xunicode "golang.org/x/text/encoding/unicode"
)

// DefaultEncodings is the candidate order used when none is configured.
var DefaultEncodings = []string{"utf-8-sig", "utf-8", "gb18030", "gbk"}

// Candidate is a named text encoding the resolver can try.
type Candidate struct {
	Name     string
	Encoding encoding.Encoding
}

var (
	errInvalidBytes = errors.New("invalid byte sequence")
	errNoText       = errors.New("no visible text")
)

var replacementUTF8 = []byte(string(utf8.RuneError))

// knownEncodings maps lowercase names and aliases to decoders.
// utf-8-sig strips a leading byte order mark, plain utf-8 keeps it.
var knownEncodings = map[string]encoding.Encoding{
	"utf-8-sig":    xunicode.UTF8BOM,
	"utf-8":        xunicode.UTF8,
	"utf8":         xunicode.UTF8,
	"gb18030":      simplifiedchinese.GB18030,
	"gbk":          simplifiedchinese.GBK,
	"cp936":        simplifiedchinese.GBK,
	"big5":         traditionalchinese.Big5,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
}

// LookupEncoding returns the candidate for an encoding name (case-insensitive).
func LookupEncoding(name string) (Candidate, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	enc, ok := knownEncodings[key]
	if !ok {
		return Candidate{}, fmt.Errorf("unknown encoding %q", name)
	}
	return Candidate{Name: key, Encoding: enc}, nil
}

// LookupEncodings resolves an ordered list of names, failing on the first unknown one.
func LookupEncodings(names []string) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(names))
	for _, name := range names {
		c, err := LookupEncoding(name)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// Decode decodes raw with a single candidate, failing on any undecodable input
// or when the result has no visible characters.
func (c Candidate) Decode(raw []byte) (string, error) {
	out, err := c.Encoding.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	if bytes.Count(out, replacementUTF8) > bytes.Count(raw, replacementUTF8) {
		return "", errInvalidBytes
	}
	text := string(out)
	if !hasVisibleText(text) {
		return "", errNoText
	}
	return text, nil
}

// ResolveEncoding decodes raw with the first candidate that succeeds.
// Every candidate tried is returned in attempts, in order; the last attempt is
// the successful one unless err is a *DecodingError.
func ResolveEncoding(raw []byte, candidates []Candidate) (text string, used string, attempts []DecodeAttempt, err error) {
	attempts = make([]DecodeAttempt, 0, len(candidates))
	for _, c := range candidates {
		decoded, derr := c.Decode(raw)
		attempts = append(attempts, DecodeAttempt{Encoding: c.Name, Err: derr})
		if derr == nil {
			return decoded, c.Name, attempts, nil
		}
	}
	return "", "", attempts, &DecodingError{Attempts: attempts}
}

// hasVisibleText reports whether s contains a non-whitespace rune.
func hasVisibleText(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) >= 0
}
