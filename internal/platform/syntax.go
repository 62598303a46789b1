package platform

import (
	"bytes"
	"encoding/json"
	"fmt"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/mcptoggle/internal/errors"
)

// ParseError marks a decode failure of the file at path as errors.ErrParse.
// The message carries the line and column when the decoder reports one.
func ParseError(err error, path string, data []byte) error {
	msg := "parsing " + path
	if line, col, ok := errorPosition(err, data); ok {
		msg = fmt.Sprintf("parsing %s at line %d, column %d", path, line, col)
	}
	return errors.WrapMark(err, errors.ErrParse, msg)
}

// errorPosition reports the 1-based line and column of a JSON or TOML
// decode error.
func errorPosition(err error, data []byte) (line, col int, ok bool) {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		tomlErr   *toml.DecodeError
	)
	switch {
	case errors.As(err, &syntaxErr):
		line, col = lineCol(data, syntaxErr.Offset)
	case errors.As(err, &typeErr):
		line, col = lineCol(data, typeErr.Offset)
	case errors.As(err, &tomlErr):
		line, col = tomlErr.Position()
	default:
		return 0, 0, false
	}
	return line, col, true
}

// lineCol converts a byte offset into data to a 1-based line and column.
// Offsets outside data are clamped.
func lineCol(data []byte, offset int64) (line, col int) {
	n := int(min(max(offset, 0), int64(len(data))))
	head := data[:n]
	line = bytes.Count(head, []byte{'\n'}) + 1
	col = n - (bytes.LastIndexByte(head, '\n') + 1) + 1
	return line, col
}
