package encoder

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/telveo/xj/internal/errors"
	"github.com/telveo/xj/internal/models"
)

// Encode writes v to w as JSON followed by a newline. Object keys keep
// their insertion order, non-ASCII characters are written verbatim, and
// HTML characters are not escaped. Pretty output uses two-space indents.
func Encode(w io.Writer, v models.Value, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return errors.NewEncodeError("failed to encode JSON value", err)
	}
	return nil
}

// EncodeToString renders v as a JSON string without a trailing newline.
func EncodeToString(v models.Value, pretty bool) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v, pretty); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
