// Package textenc перекодирует вывод в консоль (консоль Windows ожидает GBK).
package textenc

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// Поддерживаемые кодировки вывода
const (
	UTF8 = "utf-8"
	GBK  = "gbk"
)

// Normalize приводит имя кодировки к каноническому виду
func Normalize(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf8", "utf-8":
		return UTF8, nil
	case "gbk", "cp936", "gb2312":
		return GBK, nil
	default:
		return "", fmt.Errorf("unsupported output encoding %q", name)
	}
}

// NewWriter оборачивает w кодировщиком; Close нужно вызвать, чтобы сбросить буфер
func NewWriter(w io.Writer, name string) (io.WriteCloser, error) {
	enc, err := Normalize(name)
	if err != nil {
		return nil, err
	}
	if enc == UTF8 {
		return nopCloser{w}, nil
	}
	// Символы вне GBK (например ✓) заменяются, а не обрывают вывод
	return transform.NewWriter(w, encoding.ReplaceUnsupported(simplifiedchinese.GBK.NewEncoder())), nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
