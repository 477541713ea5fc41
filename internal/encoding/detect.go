package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// sampleSize is how much of the input is inspected before decoding.
	sampleSize = 8192
	// minConfidence is the chardet score below which the guess is ignored.
	minConfidence = 30
)

// Charset names returned by Detect for the BOM cases and the fallback.
const (
	UTF8     = "UTF-8"
	UTF16LE  = "UTF-16LE"
	UTF16BE  = "UTF-16BE"
	Fallback = "windows-1252"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Detect names the charset of sample. A byte order mark wins, then valid
// UTF-8, then a chardet guess with enough confidence, then windows-1252,
// which is what spreadsheet tools on Windows write by default.
func Detect(sample []byte) string {
	switch {
	case bytes.HasPrefix(sample, bomUTF8):
		return UTF8
	case bytes.HasPrefix(sample, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(sample, bomUTF16BE):
		return UTF16BE
	case utf8.Valid(sample):
		return UTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || result.Confidence < minConfidence {
		return Fallback
	}

	// chardet reports ISO-8859-1 for most Western text; windows-1252 is a
	// superset that also covers the curly quotes Excel emits.
	if result.Charset == "ISO-8859-1" {
		return Fallback
	}

	if _, err := htmlindex.Get(result.Charset); err != nil {
		return Fallback
	}

	return result.Charset
}

// NewUTF8Reader wraps r so it yields UTF-8, stripping any byte order mark.
// It also returns the charset that was detected.
func NewUTF8Reader(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sampleSize)

	sample, err := br.Peek(sampleSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("reading sample: %w", err)
	}

	charset := Detect(sample)

	switch charset {
	case UTF8:
		if bytes.HasPrefix(sample, bomUTF8) {
			_, _ = br.Discard(len(bomUTF8))
		}

		return br, charset, nil
	case UTF16LE:
		return decode(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)), charset, nil
	case UTF16BE:
		return decode(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)), charset, nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		enc = charmap.Windows1252
	}

	return decode(br, enc), charset, nil
}

func decode(r io.Reader, enc encoding.Encoding) io.Reader {
	return transform.NewReader(r, enc.NewDecoder())
}
