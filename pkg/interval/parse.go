package interval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrSyntax = errors.New("invalid interval syntax")

// ParseValueFunc converts a single bound token into a value.
type ParseValueFunc[T any] func(s string) (T, error)

// Parse parses s and returns the Interval it describes.
//
// Supported formats:
//   - N, =N                     single value [N, N]
//   - >N, >=N, <N, <=N          half-infinite ranges
//   - [a,b] [a,b) (a,b] (a,b)   bracket notation; an empty side, "∞", "+∞"
//     or "-∞" is unbounded and must use an open bracket
//   - a..b a..=b a.. ..b ..=b ..  range literal notation
//
// Spaces around tokens are ignored. Parse does not reject empty intervals,
// those are a no-op for every map operation.
func Parse[T any](s string, parseValue ParseValueFunc[T]) (Interval[T], error) {
	var r Interval[T]
	in := strings.TrimSpace(s)
	if in == "" {
		return r, fmt.Errorf("%w: empty input", ErrSyntax)
	}

	value := func(tok string) (T, error) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			var zero T
			return zero, fmt.Errorf("%w: missing value in %q", ErrSyntax, s)
		}
		v, err := parseValue(tok)
		if err != nil {
			return v, fmt.Errorf("%w: bad value %q in %q: %w", ErrSyntax, tok, s, err)
		}
		return v, nil
	}

	switch {
	case in[0] == '[' || in[0] == '(':
		return parseBrackets(s, in, value)
	case strings.HasPrefix(in, ">="):
		v, err := value(in[2:])
		return AtLeast(v), err
	case strings.HasPrefix(in, ">"):
		v, err := value(in[1:])
		return GreaterThan(v), err
	case strings.HasPrefix(in, "<="):
		v, err := value(in[2:])
		return AtMost(v), err
	case strings.HasPrefix(in, "<"):
		v, err := value(in[1:])
		return LessThan(v), err
	case strings.HasPrefix(in, "="):
		v, err := value(in[1:])
		return Point(v), err
	}

	if idx := strings.Index(in, ".."); idx >= 0 {
		return parseLiteral(s, in[:idx], in[idx+2:], value)
	}

	v, err := value(in)
	return Point(v), err
}

func parseBrackets[T any](s, in string, value func(string) (T, error)) (Interval[T], error) {
	var r Interval[T]
	last := in[len(in)-1]
	if len(in) < 2 || (last != ']' && last != ')') {
		return r, fmt.Errorf("%w: unbalanced brackets in %q", ErrSyntax, s)
	}
	left, right, ok := strings.Cut(in[1:len(in)-1], ",")
	if !ok {
		return r, fmt.Errorf("%w: missing comma in %q", ErrSyntax, s)
	}
	left, right = strings.TrimSpace(left), strings.TrimSpace(right)

	switch {
	case isInfinity(left, "-"):
		if in[0] == '[' {
			return r, fmt.Errorf("%w: infinite side must be open on the left: %q", ErrSyntax, s)
		}
		r.Start = Start(UnboundedBound[T]())
	default:
		v, err := value(left)
		if err != nil {
			return r, err
		}
		if in[0] == '[' {
			r.Start = Start(IncludedBound(v))
		} else {
			r.Start = Start(ExcludedBound(v))
		}
	}

	switch {
	case isInfinity(right, "+"):
		if last == ']' {
			return r, fmt.Errorf("%w: infinite side must be open on the right: %q", ErrSyntax, s)
		}
		r.End = End(UnboundedBound[T]())
	default:
		v, err := value(right)
		if err != nil {
			return r, err
		}
		if last == ']' {
			r.End = End(IncludedBound(v))
		} else {
			r.End = End(ExcludedBound(v))
		}
	}
	return r, nil
}

func isInfinity(tok, sign string) bool {
	switch tok {
	case "", "∞", sign + "∞", "inf", sign + "inf":
		return true
	}
	return false
}

func parseLiteral[T any](s, left, right string, value func(string) (T, error)) (Interval[T], error) {
	var r Interval[T]
	left = strings.TrimSpace(left)
	if left != "" {
		v, err := value(left)
		if err != nil {
			return r, err
		}
		r.Start = Start(IncludedBound(v))
	}

	inclusive := strings.HasPrefix(right, "=")
	if inclusive {
		right = right[1:]
	}
	right = strings.TrimSpace(right)
	switch {
	case right == "" && inclusive:
		return r, fmt.Errorf("%w: inclusive end without a value in %q", ErrSyntax, s)
	case right == "":
		return r, nil
	}
	v, err := value(right)
	if err != nil {
		return r, err
	}
	if inclusive {
		r.End = End(IncludedBound(v))
	} else {
		r.End = End(ExcludedBound(v))
	}
	return r, nil
}

// ParseInt parses s as an Interval of int64.
func ParseInt(s string) (Interval[int64], error) {
	return Parse(s, func(tok string) (int64, error) {
		return strconv.ParseInt(tok, 10, 64)
	})
}
