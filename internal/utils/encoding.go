package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"

	"github.com/Riboost-Studio/perfect-menu-print-bridge/internal/model"
)

var ErrUnknownEncoding = errors.New("unknown payload encoding")

// EncodePayload turns the data field into the bytes written to the printer.
//
// JSON strings are Unicode, so latin1 mode maps U+0000..U+00FF one-to-one
// onto bytes 0x00..0xFF. Characters above U+00FF cannot round-trip: each
// UTF-16 code unit is reduced to its low byte, so a character outside the
// BMP yields two bytes. They are counted in lossy so the caller can warn.
func EncodePayload(data string, encoding model.PayloadEncoding) (payload []byte, lossy int, err error) {
	switch model.PayloadEncoding(strings.ToLower(string(encoding))) {
	case "", model.EncodingLatin1:
		if out, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(data)); err == nil {
			return out, 0, nil
		}
		out := make([]byte, 0, len(data))
		for _, r := range data {
			switch {
			case r > 0xFFFF:
				hi, lo := utf16.EncodeRune(r)
				out = append(out, byte(hi), byte(lo))
				lossy++
			case r > 0xFF:
				out = append(out, byte(r))
				lossy++
			default:
				out = append(out, byte(r))
			}
		}
		return out, lossy, nil

	case model.EncodingBase64:
		out, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, 0, fmt.Errorf("decode base64 payload: %w", err)
		}
		return out, 0, nil

	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownEncoding, encoding)
	}
}
