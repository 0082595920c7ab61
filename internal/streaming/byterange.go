package streaming

import (
	"errors"
	"fmt"
)

var (
	// ErrUnparseable означает, что заголовок Range синтаксически некорректен.
	ErrUnparseable = errors.New("unparseable range")
	// ErrUnsatisfiable означает, что диапазон корректен, но выходит за границы объекта.
	ErrUnsatisfiable = errors.New("range not satisfiable")
	// ErrMultiRange возвращается для набора из нескольких диапазонов; multipart/byteranges не поддерживается.
	ErrMultiRange = fmt.Errorf("%w: multiple ranges are not supported", ErrUnparseable)
)

// ByteRange описывает включительный интервал [Start, End] внутри объекта размера Size.
// Инвариант: 0 <= Start <= End < Size.
type ByteRange struct {
	Start int64
	End   int64
	Size  int64
}

// Len возвращает количество байт в окне.
func (b ByteRange) Len() int64 {
	return b.End - b.Start + 1
}

// ContentRange форматирует значение заголовка Content-Range для ответа 206.
func (b ByteRange) ContentRange() string {
	return fmt.Sprintf("bytes %d-%d/%d", b.Start, b.End, b.Size)
}

// UnsatisfiedRange форматирует Content-Range для ответа 416.
func UnsatisfiedRange(size int64) string {
	return fmt.Sprintf("bytes */%d", size)
}

// Spec хранит разобранный, но ещё не проверенный по размеру заголовок Range.
// Реализован только SingleRange; MultiRange распознаётся и отклоняется.
type Spec interface {
	isSpec()
}

// SingleRange описывает один диапазон "start-end". End < 0 означает открытый конец ("start-").
type SingleRange struct {
	Start int64
	End   int64
}

// MultiRange хранит набор "a-b,c-d,...". Сами диапазоны не разбираются.
type MultiRange struct {
	Raw []string
}

func (SingleRange) isSpec() {}
func (MultiRange) isSpec()  {}
