package tmdb

import (
	"errors"
	"io"
)

// ErrResponseTooLarge is returned when a TMDB response body exceeds the allowed size.
var ErrResponseTooLarge = errors.New("response too large")

// limitedReader reads from r until n bytes were read, then fails with err.
// Unlike io.LimitedReader, hitting the limit is an error instead of an EOF, so truncated JSON is never decoded.
type limitedReader struct {
	r   io.Reader
	n   int64
	err error
}

func limitReader(r io.Reader, n int64, err error) io.Reader {
	return &limitedReader{r: r, n: n, err: err}
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.n <= 0 {
		return 0, l.err
	}
	if int64(len(p)) > l.n {
		p = p[:l.n]
	}
	n, err := l.r.Read(p)
	l.n -= int64(n)
	return n, err
}
