// Package sink writes exported entries to the output destination.
package sink

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/DeBrosOfficial/journal-exporter/pkg/decoder"
	"github.com/DeBrosOfficial/journal-exporter/pkg/errors"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Sink receives entries in store order.
type Sink interface {
	Emit(e decoder.Entry) error
}

// New returns the sink for format writing to w.
func New(format string, w io.Writer) (Sink, error) {
	switch format {
	case "", FormatText:
		return NewTextSink(w), nil
	case FormatJSON:
		return NewJSONSink(w), nil
	default:
		return nil, errors.NewValidationError("output", fmt.Sprintf("unknown output format %q", format), format)
	}
}

// TextSink writes "<realtime usec> <message>" lines and flushes each one.
// Line breaks inside a message are written as the two characters \n or \r
// so every entry stays on one line.
type TextSink struct {
	mu  sync.Mutex
	w   *bufio.Writer
	buf []byte
}

// NewTextSink creates a TextSink on w.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: bufio.NewWriter(w)}
}

// Emit implements Sink.
func (s *TextSink) Emit(e decoder.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf = strconv.AppendInt(s.buf[:0], e.Realtime.UnixMicro(), 10)
	s.buf = append(s.buf, ' ')
	s.buf = appendOneLine(s.buf, e.Message)
	s.buf = append(s.buf, '\n')
	if _, err := s.w.Write(s.buf); err != nil {
		return errors.NewSinkError(FormatText, err)
	}
	if err := s.w.Flush(); err != nil {
		return errors.NewSinkError(FormatText, err)
	}
	return nil
}

func appendOneLine(dst []byte, msg string) []byte {
	for i := 0; i < len(msg); i++ {
		switch c := msg[i]; c {
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		default:
			dst = append(dst, c)
		}
	}
	return dst
}

// jsonLine is the wire form of one JSONSink line.
type jsonLine struct {
	RealtimeUsec int64  `json:"realtime_usec"`
	Message      string `json:"message"`
	Unit         string `json:"unit,omitempty"`
	Identifier   string `json:"identifier,omitempty"`
	Priority     *int   `json:"priority,omitempty"`
}

// JSONSink writes one JSON object per line and flushes each one.
type JSONSink struct {
	mu  sync.Mutex
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONSink creates a JSONSink on w.
func NewJSONSink(w io.Writer) *JSONSink {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &JSONSink{w: bw, enc: enc}
}

// Emit implements Sink.
func (s *JSONSink) Emit(e decoder.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := jsonLine{
		RealtimeUsec: e.Realtime.UnixMicro(),
		Message:      e.Message,
		Unit:         e.Unit,
		Identifier:   e.Identifier,
	}
	if e.Priority >= 0 {
		p := e.Priority
		line.Priority = &p
	}
	if err := s.enc.Encode(line); err != nil {
		return errors.NewSinkError(FormatJSON, err)
	}
	if err := s.w.Flush(); err != nil {
		return errors.NewSinkError(FormatJSON, err)
	}
	return nil
}
