package wavefront

import (
	"errors"
	"fmt"
)

// Wavefront parse errors. Typed errors below match these via errors.Is.
var (
	ErrMalformedLine = errors.New("malformed line")
	ErrNumericParse  = errors.New("invalid number")
	ErrMissingFile   = errors.New("file not found")
)

// MalformedLineError reports a directive whose token count or structure
// does not fit its type.
type MalformedLineError struct {
	File      string // Source name, empty for readers
	Line      int    // 1-based line number
	Text      string // Trimmed line content
	Directive string
	Reason    string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("%s: %s %s: %s (%q)", location(e.File, e.Line), ErrMalformedLine, e.Directive, e.Reason, e.Text)
}

// Is reports whether target is ErrMalformedLine.
func (e *MalformedLineError) Is(target error) bool {
	return target == ErrMalformedLine
}

// NumericParseError reports a token that should be a number but is not.
type NumericParseError struct {
	File  string
	Line  int
	Text  string
	Token string
	Err   error // Underlying strconv error
}

func (e *NumericParseError) Error() string {
	return fmt.Sprintf("%s: %s %q (%q)", location(e.File, e.Line), ErrNumericParse, e.Token, e.Text)
}

// Is reports whether target is ErrNumericParse.
func (e *NumericParseError) Is(target error) bool {
	return target == ErrNumericParse
}

func (e *NumericParseError) Unwrap() error {
	return e.Err
}

// MissingFileError reports an absent model or materials file.
type MissingFileError struct {
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingFile, e.Path)
}

// Is reports whether target is ErrMissingFile.
func (e *MissingFileError) Is(target error) bool {
	return target == ErrMissingFile
}

func (e *MissingFileError) Unwrap() error {
	return e.Err
}

func location(file string, line int) string {
	if file == "" {
		return fmt.Sprintf("line %d", line)
	}
	return fmt.Sprintf("%s:%d", file, line)
}
