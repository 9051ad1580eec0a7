package runner

// limitedWriter is an io.Writer that discards bytes beyond a maximum limit,
// preventing unbounded memory allocation while a command runs.
type limitedWriter struct {
	buf []byte
	max int64
}

func newLimitedWriter(max int64) *limitedWriter {
	return &limitedWriter{max: max}
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	remaining := w.max - int64(len(w.buf))
	if remaining > 0 {
		n := int64(len(p))
		if n > remaining {
			n = remaining
		}
		w.buf = append(w.buf, p[:n]...)
	}
	// Always report all bytes as written so the command doesn't stall.
	return len(p), nil
}

// truncated reports whether the writer hit its capacity limit.
func (w *limitedWriter) truncated() bool {
	return int64(len(w.buf)) >= w.max
}

// collect returns the content, appending a truncation indicator if the
// output exceeded the writer's capacity.
func (w *limitedWriter) collect() string {
	if w.truncated() {
		return string(w.buf) + truncationSuffix
	}
	return string(w.buf)
}
