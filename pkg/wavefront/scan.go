package wavefront

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// maxLineSize bounds a single directive line. Faces of large n-gons can
// exceed bufio's 64 KiB default.
const maxLineSize = 1 << 20

// line is one tokenized, non-comment source line.
type line struct {
	file   string
	num    int
	text   string
	fields []string
}

// scanLines feeds every non-blank, non-comment line of r to fn.
// A leading byte order mark is dropped; other bytes pass through unchanged.
func scanLines(r io.Reader, file string, fn func(l *line) error) error {
	decoded := transform.NewReader(r, unicode.BOMOverride(transform.Nop))

	s := bufio.NewScanner(decoded)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	l := &line{file: file}
	for s.Scan() {
		l.num++

		text := strings.TrimSpace(s.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		l.text = text
		l.fields = strings.Fields(text)

		if err := fn(l); err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("%s: reading: %w", location(file, l.num+1), err)
	}
	return nil
}

func (l *line) directive() string {
	return l.fields[0]
}

// args returns the tokens after the directive.
func (l *line) args() []string {
	return l.fields[1:]
}

// rest returns the line text after the directive, for names that may
// contain spaces.
func (l *line) rest() string {
	return strings.TrimSpace(strings.TrimPrefix(l.text, l.fields[0]))
}

func (l *line) malformed(format string, args ...any) error {
	return &MalformedLineError{
		File:      l.file,
		Line:      l.num,
		Text:      l.text,
		Directive: l.directive(),
		Reason:    fmt.Sprintf(format, args...),
	}
}

func (l *line) numeric(token string, err error) error {
	return &NumericParseError{
		File:  l.file,
		Line:  l.num,
		Text:  l.text,
		Token: token,
		Err:   err,
	}
}

// floats parses the first len(dst) arguments into dst. Extra arguments
// are ignored.
func (l *line) floats(dst []float32) error {
	args := l.args()
	if len(args) < len(dst) {
		return l.malformed("expected %d values, got %d", len(dst), len(args))
	}
	for i := range dst {
		v, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return l.numeric(args[i], err)
		}
		dst[i] = float32(v)
	}
	return nil
}
