package source

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding selects how raw log bytes are decoded.
type Encoding uint8

const (
	// EncodingAuto sniffs byte order marks and falls back to windows-1252
	// for content that is not valid UTF-8.
	EncodingAuto Encoding = iota
	EncodingUTF8
	EncodingUTF16LE
	EncodingUTF16BE
	EncodingLatin1
	EncodingWindows1252
)

func (e Encoding) String() string {
	switch e {
	case EncodingAuto:
		return "auto"
	case EncodingUTF8:
		return "utf-8"
	case EncodingUTF16LE:
		return "utf-16le"
	case EncodingUTF16BE:
		return "utf-16be"
	case EncodingLatin1:
		return "latin1"
	case EncodingWindows1252:
		return "windows-1252"
	}
	return "unknown"
}

// ParseEncoding converts a user supplied name to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return EncodingAuto, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "utf-16le", "utf16le":
		return EncodingUTF16LE, nil
	case "utf-16be", "utf16be":
		return EncodingUTF16BE, nil
	case "latin1", "iso-8859-1":
		return EncodingLatin1, nil
	case "windows-1252", "cp1252":
		return EncodingWindows1252, nil
	default:
		return EncodingAuto, fmt.Errorf("unknown encoding: %q (expected: auto|utf-8|utf-16le|utf-16be|latin1|windows-1252)", s)
	}
}

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode converts raw bytes to normalized UTF-8: the BOM is removed and CRLF
// pairs become LF. Lone CRs are kept; the line splitter treats them as
// separators.
func Decode(content []byte, enc Encoding) ([]byte, LogFlags, error) {
	var flags LogFlags

	if enc == EncodingAuto {
		enc = sniff(content)
	}

	var dec encoding.Encoding
	switch enc {
	case EncodingUTF8, EncodingAuto:
		// already UTF-8
	case EncodingUTF16LE:
		dec = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case EncodingUTF16BE:
		dec = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case EncodingLatin1:
		dec = charmap.ISO8859_1
	case EncodingWindows1252:
		dec = charmap.Windows1252
	default:
		return nil, 0, fmt.Errorf("unsupported encoding: %v", enc)
	}

	if dec != nil {
		out, _, err := transform.Bytes(dec.NewDecoder(), content)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to decode %s: %w", enc, err)
		}
		content = out
		flags |= LogTranscoded
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	if hadBOM {
		flags |= LogHadBOM
	}
	if hadCRLF {
		flags |= LogNormalizedCRLF
	}
	return content, flags, nil
}

func sniff(content []byte) Encoding {
	switch {
	case bytes.HasPrefix(content, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(content, bomUTF16BE):
		return EncodingUTF16BE
	case utf8.Valid(content):
		return EncodingUTF8
	default:
		return EncodingWindows1252
	}
}
