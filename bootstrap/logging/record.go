package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"time"
)

const maxBufferSize = 4000 // 4kbytes

type Level int

const (
	Info Level = iota
	Error
)

type LogRecord struct {
	Phase   string
	Time    int64
	Level   Level
	Message io.ReadWriter
}

func (r *LogRecord) FromPhase(p string) *LogRecord {
	r.Phase = p
	return r
}

func (r *LogRecord) FromNow() *LogRecord {
	r.Time = time.Now().Unix()
	return r
}

func (r *LogRecord) AtLevel(l Level) *LogRecord {
	r.Level = l
	return r
}

func (r *LogRecord) WithMessage(s string) *LogRecord {
	r.Message.(*bytes.Buffer).WriteString(s)
	return r
}

func (r *LogRecord) Cap() int {
	return r.Message.(*bytes.Buffer).Cap()
}

func (r *LogRecord) Reset() *LogRecord {
	r.Phase = ""
	r.Time = time.Now().Unix()
	r.Level = Info

	if r.Message == nil {
		r.Message = &bytes.Buffer{}
	} else {
		// Free buffers that are too big
		if r.Message.(*bytes.Buffer).Cap() > maxBufferSize {
			r.Message = &bytes.Buffer{}
		}
		r.Message.(*bytes.Buffer).Reset()
	}

	return r
}

func (r *LogRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Phase   string `json:"phase"`
		Time    int64  `json:"time"`
		Level   Level  `json:"level"`
		Message string `json:"message"`
	}{
		r.Phase,
		r.Time,
		r.Level,
		string(r.Message.(*bytes.Buffer).Bytes()),
	})
}
