package source

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// EachLine streams r line by line, splitting on "\n", "\r\n" and lone "\r".
// A trailing separator does not produce an empty final line. There is no
// line length limit. Only read errors are returned.
func EachLine(r io.Reader, fn func(line string)) error {
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		chunk, err := br.ReadString('\n')
		if chunk != "" {
			chunk = strings.TrimSuffix(chunk, "\n")
			chunk = strings.TrimSuffix(chunk, "\r")
			for _, line := range strings.Split(chunk, "\r") {
				fn(line)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
