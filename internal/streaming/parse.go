package streaming

import (
	"fmt"
	"strconv"
	"strings"
)

const bytesUnitPrefix = "bytes="

// Parse разбирает значение заголовка Range и проверяет его по размеру объекта.
// Суффиксные диапазоны ("bytes=-N") не поддерживаются и считаются некорректными.
func Parse(header string, size int64) (ByteRange, error) {
	spec, err := ParseSpec(header)
	if err != nil {
		return ByteRange{}, err
	}

	return Resolve(spec, size)
}

// ParseSpec выполняет только синтаксический разбор.
func ParseSpec(header string) (Spec, error) {
	value := strings.TrimSpace(header)
	if !strings.HasPrefix(value, bytesUnitPrefix) {
		return nil, fmt.Errorf("%w: missing %q prefix in %q", ErrUnparseable, bytesUnitPrefix, header)
	}

	rest := strings.TrimPrefix(value, bytesUnitPrefix)
	if rest == "" {
		return nil, fmt.Errorf("%w: empty range set", ErrUnparseable)
	}

	if strings.Contains(rest, ",") {
		return MultiRange{Raw: strings.Split(rest, ",")}, nil
	}

	fields := strings.SplitN(rest, "-", 2)

	if fields[0] == "" {
		return nil, fmt.Errorf("%w: suffix range %q", ErrUnparseable, rest)
	}
	start, err := parseOffset(fields[0])
	if err != nil {
		return nil, err
	}

	end := int64(-1)
	if len(fields) == 2 && fields[1] != "" {
		if end, err = parseOffset(fields[1]); err != nil {
			return nil, err
		}
	}

	return SingleRange{Start: start, End: end}, nil
}

// Resolve проверяет разобранный диапазон по размеру объекта.
func Resolve(spec Spec, size int64) (ByteRange, error) {
	switch s := spec.(type) {
	case SingleRange:
		if size <= 0 {
			return ByteRange{}, fmt.Errorf("%w: empty object", ErrUnsatisfiable)
		}

		end := s.End
		if end < 0 {
			end = size - 1
		}
		if s.Start < 0 || end < s.Start || end > size-1 {
			return ByteRange{}, fmt.Errorf("%w: %d-%d of %d", ErrUnsatisfiable, s.Start, end, size)
		}

		return ByteRange{Start: s.Start, End: end, Size: size}, nil
	case MultiRange:
		return ByteRange{}, ErrMultiRange
	default:
		return ByteRange{}, fmt.Errorf("%w: unknown range spec %T", ErrUnparseable, spec)
	}
}

// parseOffset принимает только десятичные цифры. Переполнение int64 означает корректный
// синтаксис за пределами любого объекта, поэтому оно даёт ErrUnsatisfiable.
func parseOffset(field string) (int64, error) {
	for i := 0; i < len(field); i++ {
		if field[i] < '0' || field[i] > '9' {
			return 0, fmt.Errorf("%w: invalid offset %q", ErrUnparseable, field)
		}
	}

	n, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: offset %q: %v", ErrUnsatisfiable, field, err)
	}

	return n, nil
}
