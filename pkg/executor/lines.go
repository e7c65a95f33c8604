package executor

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

// lineSink serializes OnLine callbacks from the stdout and stderr copiers
type lineSink struct {
	mu     sync.Mutex
	onLine func(stream, line string)
}

func newLineSink(onLine func(stream, line string)) *lineSink {
	return &lineSink{onLine: onLine}
}

func (s *lineSink) writer(stream string, capture io.Writer) *lineWriter {
	return &lineWriter{sink: s, stream: stream, capture: capture}
}

func (s *lineSink) emit(stream, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLine(stream, line)
}

// lineWriter captures everything written to it and reports complete lines
type lineWriter struct {
	sink    *lineSink
	stream  string
	capture io.Writer
	pending bytes.Buffer
}

func (w *lineWriter) Write(p []byte) (int, error) {
	n, err := w.capture.Write(p)
	if err != nil {
		return n, err
	}

	w.pending.Write(p)
	for {
		i := bytes.IndexByte(w.pending.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(w.pending.Next(i + 1))
		w.sink.emit(w.stream, strings.TrimRight(line, "\r\n"))
	}
	return n, nil
}

// Flush reports a trailing line that had no newline
func (w *lineWriter) Flush() {
	if w.pending.Len() == 0 {
		return
	}
	line := strings.TrimRight(w.pending.String(), "\r\n")
	w.pending.Reset()
	w.sink.emit(w.stream, line)
}
