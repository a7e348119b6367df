// Package prompt читает пароль для CLI: скрыто из терминала или целиком из STDIN.
package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotTerminal — интерактивный ввод невозможен, нужен флаг чтения из STDIN.
var ErrNotTerminal = errors.New("stdin is not a terminal; use --password-stdin")

// ReadPassword читает пароль.
//
//   - fromStdin=true: читает in полностью, обрезает перевод строки в конце (для скриптов/CI);
//   - fromStdin=false: печатает label в out и читает пароль из терминала без эха.
//
// Пустой пароль считается ошибкой.
func ReadPassword(in io.Reader, out io.Writer, label string, fromStdin bool) (string, error) {
	if fromStdin {
		b, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		pw := bytes.TrimRight(b, "\r\n")
		if len(pw) == 0 {
			return "", errors.New("empty password on stdin")
		}
		return string(pw), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNotTerminal
	}

	fmt.Fprint(out, label+": ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	pw := strings.TrimSpace(string(raw))
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}
