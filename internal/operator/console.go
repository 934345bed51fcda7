package operator

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Console is the operator's line-oriented surface: it reads commands
// from stdin and renders text to stdout. All prompting logic lives in
// the coordinator; the console only moves lines.
type Console struct {
	reader *bufio.Reader
	writer *bufio.Writer
}

func NewConsole() *Console {
	return &Console{
		reader: bufio.NewReader(os.Stdin),
		writer: bufio.NewWriter(os.Stdout),
	}
}

// ReadLine - blocks for one line of input, stripped of the line break.
func (that *Console) ReadLine() (string, error) {
	line, err := that.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read line: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// WriteLine - renders one line of text.
func (that *Console) WriteLine(text string) error {
	if _, err := that.writer.WriteString(text + "\n"); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}

	if err := that.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush line: %w", err)
	}

	return nil
}
