package sink

import (
	"bytes"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeBrosOfficial/journal-exporter/pkg/decoder"
	"github.com/DeBrosOfficial/journal-exporter/pkg/errors"
)

// flushCounter records what reached the underlying writer.
type flushCounter struct {
	writes int
	buf    bytes.Buffer
}

func (f *flushCounter) Write(p []byte) (int, error) {
	f.writes++
	return f.buf.Write(p)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, stderrors.New("broken pipe") }

func TestTextSinkFormat(t *testing.T) {
	out := &flushCounter{}
	s := NewTextSink(out)

	require.NoError(t, s.Emit(decoder.Entry{Realtime: time.UnixMicro(1000000), Message: "hello"}))
	assert.Equal(t, "1000000 hello\n", out.buf.String())
	assert.Equal(t, 1, out.writes, "each line must reach the writer before Emit returns")

	require.NoError(t, s.Emit(decoder.Entry{Realtime: time.UnixMicro(1000001), Message: "world"}))
	assert.Equal(t, "1000000 hello\n1000001 world\n", out.buf.String())
	assert.Equal(t, 2, out.writes)
}

func TestTextSinkKeepsMultilineMessageOnOneLine(t *testing.T) {
	var out bytes.Buffer
	s := NewTextSink(&out)

	require.NoError(t, s.Emit(decoder.Entry{Realtime: time.UnixMicro(3), Message: "panic: boom\n\tat main.go:10\r\n"}))
	assert.Equal(t, "3 panic: boom\\n\tat main.go:10\\r\\n\n", out.String())
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("\n")))
}

func TestJSONSinkFormat(t *testing.T) {
	var out bytes.Buffer
	s := NewJSONSink(&out)

	require.NoError(t, s.Emit(decoder.Entry{
		Realtime:   time.UnixMicro(42),
		Message:    "<b>up</b>",
		Unit:       "api.service",
		Identifier: "api",
		Priority:   6,
	}))
	require.NoError(t, s.Emit(decoder.Entry{Realtime: time.UnixMicro(43), Message: "bare", Priority: -1}))

	assert.Equal(t,
		`{"realtime_usec":42,"message":"<b>up</b>","unit":"api.service","identifier":"api","priority":6}`+"\n"+
			`{"realtime_usec":43,"message":"bare"}`+"\n",
		out.String())
}

func TestSinkWriteFailure(t *testing.T) {
	for _, format := range []string{FormatText, FormatJSON} {
		t.Run(format, func(t *testing.T) {
			s, err := New(format, failingWriter{})
			require.NoError(t, err)

			err = s.Emit(decoder.Entry{Realtime: time.UnixMicro(1), Message: "x"})
			require.Error(t, err)
			assert.True(t, errors.IsSink(err))
			assert.True(t, errors.IsFatal(err))
		})
	}
}

func TestNewUnknownFormat(t *testing.T) {
	_, err := New("xml", &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	s, err := New("", &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &TextSink{}, s)
}
