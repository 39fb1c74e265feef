package logging

import (
	"bytes"
	"io"
	"time"
)

// StampWriter prefixes each complete line with the time it was written.
type StampWriter struct {
	writer io.Writer
	buffer bytes.Buffer
	now    func() time.Time
}

// NewStampWriter wraps w.
func NewStampWriter(w io.Writer) *StampWriter {
	return &StampWriter{writer: w, now: time.Now}
}

// Write buffers p until a newline is seen, then writes the stamped line.
func (sw *StampWriter) Write(p []byte) (int, error) {
	n := len(p)
	if _, err := sw.buffer.Write(p); err != nil {
		return 0, err
	}
	for {
		line, err := sw.buffer.ReadBytes('\n')
		if err != nil {
			// Incomplete line: keep it for the next write.
			if len(line) > 0 {
				if _, wErr := sw.buffer.Write(line); wErr != nil {
					return 0, wErr
				}
			}
			break
		}
		stamp := sw.now().Format("2006-01-02 15:04:05") + ": "
		if _, err := io.WriteString(sw.writer, stamp); err != nil {
			return 0, err
		}
		if _, err := sw.writer.Write(line); err != nil {
			return 0, err
		}
	}
	return n, nil
}
