package encoding

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hpcrec/recorder/errs"
	"github.com/hpcrec/recorder/format"
	"github.com/hpcrec/recorder/functab"
	"github.com/hpcrec/recorder/record"
)

// AppendTimestamp appends t in the fixed six decimal form used by text lines.
func AppendTimestamp(buf []byte, t float64) []byte {
	return strconv.AppendFloat(buf, t, 'f', 6, 64)
}

// AppendArgs appends the argument tail: " arg" per argument, then '\n'.
//
// Empty arguments and arguments containing a newline cannot be represented
// and are written as format.MissingArgument.
func AppendArgs(buf []byte, args []string) []byte {
	for _, arg := range args {
		buf = append(buf, ' ')
		if arg == "" || strings.IndexByte(arg, '\n') >= 0 {
			buf = append(buf, format.MissingArgument...)
			continue
		}
		buf = append(buf, arg...)
	}

	return append(buf, '\n')
}

// AppendTextLine appends the text form of r.
func AppendTextLine(buf []byte, tab functab.Table, r *record.Record) ([]byte, error) {
	name := tab.Name(r.FunctionID)
	if name == "" {
		return buf, fmt.Errorf("%w: %d", errs.ErrUnknownFunction, r.FunctionID)
	}

	buf = AppendTimestamp(buf, r.TimeStart)
	buf = append(buf, ' ')
	buf = AppendTimestamp(buf, r.TimeEnd)
	buf = append(buf, ' ')
	buf = append(buf, name...)

	return AppendArgs(buf, r.Args), nil
}

// SplitArgs parses an argument tail without its trailing newline.
func SplitArgs(tail string) ([]string, error) {
	if tail == "" {
		return nil, nil
	}
	if tail[0] != ' ' {
		return nil, fmt.Errorf("%w: argument tail %q does not start with a separator",
			errs.ErrMalformedTextLine, tail)
	}

	return strings.Split(tail[1:], " "), nil
}
