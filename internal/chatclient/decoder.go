package chatclient

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"

	readChunkSize = 4 << 10
)

type decodeState int

const (
	stateReceiving decodeState = iota
	stateBuffering
	stateParsing
	stateFlushing
	stateDone
)

func (s decodeState) String() string {
	switch s {
	case stateReceiving:
		return "receiving"
	case stateBuffering:
		return "buffering"
	case stateParsing:
		return "parsing"
	case stateFlushing:
		return "flushing"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Decoder turns an event-stream body into content deltas. It is single use:
// once Next reports io.EOF the decoder stays done.
type Decoder struct {
	r     io.Reader
	state decodeState

	text    transform.Transformer
	raw     []byte // bytes not yet decoded, at most a partial UTF-8 sequence between chunks
	scratch []byte
	chunk   []byte
	last    []byte

	buf     string
	pending []string

	eof     bool
	readErr error
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:       r,
		state:   stateReceiving,
		text:    unicode.UTF8.NewDecoder(),
		scratch: make([]byte, readChunkSize),
		chunk:   make([]byte, readChunkSize),
	}
}

// Next returns the next non-empty content delta. It returns io.EOF once the
// stream ended or the [DONE] sentinel was seen, and a read error if the
// underlying body failed before either.
func (d *Decoder) Next() (string, error) {
	for {
		if len(d.pending) > 0 {
			delta := d.pending[0]
			d.pending = d.pending[1:]
			return delta, nil
		}

		switch d.state {
		case stateReceiving:
			n, err := d.r.Read(d.chunk)
			if err != nil {
				if errors.Is(err, io.EOF) {
					d.eof = true
				} else {
					d.readErr = err
				}
			}
			switch {
			case n > 0:
				d.last = d.chunk[:n]
				d.state = stateBuffering
			case d.eof:
				d.state = stateFlushing
			case d.readErr != nil:
				d.state = stateDone
			}

		case stateBuffering:
			d.decode(d.last, false)
			d.last = nil
			d.state = stateParsing

		case stateParsing:
			if d.extract(false) {
				d.readErr = nil
				d.state = stateDone
				continue
			}
			switch {
			case d.eof:
				d.state = stateFlushing
			case d.readErr != nil:
				d.state = stateDone
			default:
				d.state = stateReceiving
			}

		case stateFlushing:
			d.decode(nil, true)
			d.extract(true)
			d.buf = ""
			d.state = stateDone

		case stateDone:
			if len(d.pending) > 0 {
				continue
			}
			if d.readErr != nil && !d.eof {
				err := d.readErr
				d.readErr = nil
				d.eof = true
				return "", err
			}
			return "", io.EOF
		}
	}
}

// decode appends p to the text buffer, holding back a trailing partial rune
// until more bytes arrive or atEOF is set.
func (d *Decoder) decode(p []byte, atEOF bool) {
	d.raw = append(d.raw, p...)
	for {
		nDst, nSrc, err := d.text.Transform(d.scratch, d.raw, atEOF)
		d.buf += string(d.scratch[:nDst])
		d.raw = append(d.raw[:0], d.raw[nSrc:]...)
		if err != transform.ErrShortDst {
			return
		}
	}
}

// extract consumes complete lines from the front of the buffer. In flush mode
// the unterminated tail counts as a line and malformed payloads are dropped.
// It reports whether the sentinel was reached.
func (d *Decoder) extract(flush bool) bool {
	for {
		var line string
		i := strings.IndexByte(d.buf, '\n')
		switch {
		case i >= 0:
			line, d.buf = d.buf[:i], d.buf[i+1:]
		case flush && d.buf != "":
			line, d.buf = d.buf, ""
		default:
			return false
		}
		line = strings.TrimSuffix(line, "\r")

		if line == "" || strings.HasPrefix(line, ":") || !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		payload := strings.TrimSpace(line[len(dataPrefix):])
		if payload == doneSentinel {
			return true
		}
		content, err := deltaContent(payload)
		if err != nil {
			if flush {
				continue
			}
			// Probably half an event; wait for the next chunk.
			d.buf = line + "\n" + d.buf
			return false
		}
		if content != "" {
			d.pending = append(d.pending, content)
		}
	}
}

type streamEvent struct {
	Choices []struct {
		Delta struct {
			Content any `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func deltaContent(payload string) (string, error) {
	var ev streamEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return "", nil
		}
		return "", err
	}
	if len(ev.Choices) == 0 {
		return "", nil
	}
	s, _ := ev.Choices[0].Delta.Content.(string)
	return s, nil
}
