package upload

import "io"

// countingReader reports every chunk pulled off the underlying reader. The
// callback fires from the transfer goroutine; receivers must be safe for
// concurrent use.
type countingReader struct {
	r  io.Reader
	fn func(int64)
}

func newCountingReader(r io.Reader, fn func(int64)) *countingReader {
	return &countingReader{r: r, fn: fn}
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 && c.fn != nil {
		c.fn(int64(n))
	}

	return n, err
}
