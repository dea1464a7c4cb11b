package menu

import (
	"bufio"
	"context"
	"io"
)

type lineResult struct {
	line string
	err  error
}

// lineReader pumps lines from an io.Reader so reads can be abandoned on ctx cancellation
type lineReader struct {
	lines chan lineResult
	done  chan struct{}
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{
		lines: make(chan lineResult),
		done:  make(chan struct{}),
	}

	go func() {
		defer close(lr.lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lr.lines <- lineResult{line: scanner.Text()}:
			case <-lr.done:
				return
			}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		select {
		case lr.lines <- lineResult{err: err}:
		case <-lr.done:
		}
	}()

	return lr
}

// next returns the next line, io.EOF at end of input, or the ctx error
func (lr *lineReader) next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-lr.lines:
		if !ok {
			return "", io.EOF
		}
		return res.line, res.err
	}
}

func (lr *lineReader) close() {
	close(lr.done)
}
