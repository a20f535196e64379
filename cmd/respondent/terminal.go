package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// terminal - построчный ввод и вывод
type terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

func newTerminal(in io.Reader, out io.Writer) *terminal {
	return &terminal{in: bufio.NewScanner(in), out: out}
}

func (t *terminal) printf(format string, args ...interface{}) {
	fmt.Fprintf(t.out, format, args...)
}

func (t *terminal) readLine() (string, error) {
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(t.in.Text()), nil
}

// ask задаёт вопрос со свободным ответом
func (t *terminal) ask(prompt string) (string, error) {
	t.printf("%s: ", prompt)
	return t.readLine()
}

// choose предлагает пронумерованный список и повторяет вопрос до верного номера.
// Пустой ввод допустим, только если optional.
func (t *terminal) choose(prompt string, items []string, optional bool) (int, error) {
	for {
		t.printf("%s\n", prompt)
		for i, item := range items {
			t.printf("  %d) %s\n", i+1, item)
		}
		t.printf("> ")
		line, err := t.readLine()
		if err != nil {
			return -1, err
		}
		if line == "" && optional {
			return -1, nil
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(items) {
			return n - 1, nil
		}
		t.printf("Введите номер от 1 до %d\n", len(items))
	}
}

// confirm ждёт да/нет
func (t *terminal) confirm(prompt string) (bool, error) {
	t.printf("%s [y/n]: ", prompt)
	line, err := t.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes", "д", "да":
		return true, nil
	}
	return false, nil
}

// pause ждёт Enter
func (t *terminal) pause(prompt string) error {
	t.printf("%s", prompt)
	_, err := t.readLine()
	return err
}
