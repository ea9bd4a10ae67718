// Package votable implements the streaming core of the VOTable format:
// a pull-based XML tokenizer that yields element events without building
// a tree, and a TABLEDATA serializer for row-major tables.
//
// The tokenizer is tuned for the dominant workload of real VOTable files,
// millions of TD cell elements, and keeps memory bounded regardless of
// document size. Character data is not exposed as its own event; the text
// retained for an element rides on its End event.
package votable

import (
	"bufio"
	"errors"
	"io"

	"github.com/jacoelho/xsd/pkg/xmltext"

	"github.com/astrogo/votable/internal/buf"
)

// ChunkFunc supplies the parser with input one chunk at a time.
// Returning an empty chunk or io.EOF ends the stream.
type ChunkFunc func() ([]byte, error)

// Parser is a pull iterator over the element events of one XML stream.
// It is not safe for concurrent use; parse independent streams with
// independent parsers.
type Parser struct {
	dec   *xmltext.Decoder
	src   source
	names *nameCache

	queue queue
	tok   xmltext.Token

	text     buf.Buffer
	scratch  []byte
	keepText bool

	bufferSize int64
	done       bool
	pending    error
	err        error
	released   bool
}

// NewParser returns a parser reading from r. If r is an io.Closer it is
// closed when iteration terminates or Close is called.
func NewParser(r io.Reader, opts ...Option) (*Parser, error) {
	if r == nil {
		return nil, errors.New("votable: nil reader")
	}
	return newParser(&readerSource{r: r}, opts)
}

// NewParserFunc returns a parser that obtains input by calling fn.
func NewParserFunc(fn ChunkFunc, opts ...Option) (*Parser, error) {
	if fn == nil {
		return nil, errors.New("votable: nil chunk func")
	}
	return newParser(&chunkSource{fn: fn}, opts)
}

func newParser(src source, opts []Option) (*Parser, error) {
	cfg := resolveParserConfig(opts)
	reader := bufio.NewReaderSize(src, cfg.bufferSize)
	dec := xmltext.NewDecoder(reader,
		xmltext.ResolveEntities(false),
		xmltext.CoalesceCharData(true),
		xmltext.EmitComments(false),
		xmltext.EmitPI(false),
		xmltext.EmitDirectives(false),
		xmltext.TrackLineColumn(true),
	)
	p := &Parser{
		dec:        dec,
		src:        src,
		names:      newNameCache(),
		bufferSize: int64(cfg.bufferSize),
	}
	// One feed cycle consumes at most bufferSize bytes of input and a
	// start or end tag needs at least three, so half the buffer size in
	// slots can never fill.
	p.queue.events = make([]Event, cfg.bufferSize/2)
	return p, nil
}

// Next returns the next event in document order.
//
// At the end of input it returns io.EOF; on malformed XML it returns a
// *ParseError carrying the document position. Both outcomes are terminal
// and repeat on further calls. Events produced before a syntax error are
// always delivered before the error itself.
func (p *Parser) Next() (Event, error) {
	if ev, ok := p.queue.pop(); ok {
		return ev, nil
	}
	if p.err != nil {
		return Event{}, p.err
	}
	if p.pending != nil {
		return Event{}, p.terminate(p.takePending())
	}
	if p.done {
		return Event{}, p.terminate(io.EOF)
	}

	p.refill()

	if ev, ok := p.queue.pop(); ok {
		return ev, nil
	}
	if p.pending != nil {
		return Event{}, p.terminate(p.takePending())
	}
	return Event{}, p.terminate(io.EOF)
}

// Close releases the underlying source. It is safe to call more than
// once and after iteration has terminated.
func (p *Parser) Close() error {
	err := p.release()
	p.queue.reset()
	if p.err == nil {
		p.err = errClosed
		p.done = true
	}
	return err
}

// refill runs feed cycles until at least one event is queued, an error is
// pending, or the input is exhausted. One cycle reads up to bufferSize
// bytes of scanner input; large text runs may need several cycles before
// an event appears.
func (p *Parser) refill() {
	p.queue.reset()
	for p.queue.empty() && !p.done {
		budget := p.dec.InputOffset() + p.bufferSize
		for p.dec.InputOffset() < budget {
			if err := p.dec.ReadTokenInto(&p.tok); err != nil {
				if errors.Is(err, io.EOF) {
					p.done = true
				} else {
					p.fail(p.scanError(err))
				}
				break
			}
			p.handleToken(&p.tok)
			if p.pending != nil {
				break
			}
		}
	}
}

func (p *Parser) handleToken(tok *xmltext.Token) {
	switch tok.Kind {
	case xmltext.KindStartElement:
		p.startElement(tok)
	case xmltext.KindEndElement:
		p.endElement(tok)
	case xmltext.KindCharData, xmltext.KindCDATA:
		p.characterData(tok)
	}
}

func (p *Parser) startElement(tok *xmltext.Token) {
	ev := Event{
		Kind:   EventStart,
		Name:   p.tagName(tok),
		Line:   tok.Line,
		Column: tok.Column,
	}
	if n := len(tok.Attrs); n > 0 {
		attrs := make(Attrs, 0, n)
		for i, attr := range tok.Attrs {
			p.scratch = p.scratch[:0]
			var err error
			if tok.AttrNeeds[i] {
				p.scratch, err = xmltext.UnescapeInto(p.scratch, attr.ValueSpan)
				if err != nil {
					p.fail(&ParseError{Line: tok.Line, Column: tok.Column, Err: err})
					return
				}
			} else {
				p.scratch = xmltext.CopySpan(p.scratch, attr.ValueSpan)
			}
			// Attributes with empty values are dropped entirely.
			if len(p.scratch) == 0 {
				continue
			}
			value := string(p.scratch)
			p.scratch = xmltext.CopySpan(p.scratch[:0], attr.Name.Full)
			attrs = append(attrs, Attr{Name: string(p.scratch), Value: value})
		}
		if len(attrs) > 0 {
			ev.Attrs = attrs
		}
	}

	p.text.Reset()
	p.keepText = true
	p.enqueue(ev)
}

func (p *Parser) endElement(tok *xmltext.Token) {
	// Trim trailing whitespace once, in place, so a parent's close tag
	// sees the already-trimmed text of its last retained run.
	p.text.TrimRightFunc(isWhitespace)
	p.keepText = false
	p.enqueue(Event{
		Kind:   EventEnd,
		Name:   p.tagName(tok),
		Text:   p.text.String(),
		Line:   tok.Line,
		Column: tok.Column,
	})
}

func (p *Parser) characterData(tok *xmltext.Token) {
	if !p.keepText {
		return
	}
	p.scratch = p.scratch[:0]
	if tok.TextNeeds {
		var err error
		p.scratch, err = xmltext.UnescapeInto(p.scratch, tok.Text)
		if err != nil {
			p.fail(&ParseError{Line: tok.Line, Column: tok.Column, Err: err})
			return
		}
	} else {
		p.scratch = xmltext.CopySpan(p.scratch, tok.Text)
	}
	data := p.scratch
	// Strip leading whitespace only while the accumulator is empty.
	if p.text.Len() == 0 {
		for len(data) > 0 && isWhitespace(data[0]) {
			data = data[1:]
		}
	}
	p.text.AppendBytes(data)
}

func (p *Parser) tagName(tok *xmltext.Token) string {
	p.scratch = xmltext.CopySpan(p.scratch[:0], tok.Name.Local)
	return p.names.intern(p.scratch)
}

func (p *Parser) enqueue(ev Event) {
	if !p.queue.push(ev) {
		p.fail(ErrEventQueueOverflow)
	}
}

// fail records an error for deferred delivery. Events already queued in
// this cycle logically precede the failure point and are drained first;
// no further feed cycles run afterwards.
func (p *Parser) fail(err error) {
	if p.pending == nil {
		p.pending = err
	}
	p.done = true
}

func (p *Parser) takePending() error {
	err := p.pending
	p.pending = nil
	return err
}

// scanError maps a scanner failure to the public error surface: source
// I/O errors pass through verbatim, everything else becomes a positioned
// *ParseError.
func (p *Parser) scanError(err error) error {
	if srcErr := p.src.failure(); srcErr != nil {
		return srcErr
	}
	var syntax *xmltext.SyntaxError
	if errors.As(err, &syntax) {
		return &ParseError{Line: syntax.Line, Column: syntax.Column, Err: syntax.Err}
	}
	return err
}

// terminate records the terminal outcome and releases the source.
// Subsequent Next calls repeat the same outcome.
func (p *Parser) terminate(err error) error {
	p.err = err
	p.done = true
	_ = p.release()
	return err
}

func (p *Parser) release() error {
	if p.released {
		return nil
	}
	p.released = true
	return p.src.release()
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// queue is the bounded FIFO of events produced by one feed cycle.
// Both cursors reset at the start of every cycle.
type queue struct {
	events []Event
	read   int
	write  int
}

func (q *queue) reset() {
	q.read = 0
	q.write = 0
}

func (q *queue) empty() bool {
	return q.read == q.write
}

func (q *queue) push(ev Event) bool {
	if q.write == len(q.events) {
		return false
	}
	q.events[q.write] = ev
	q.write++
	return true
}

func (q *queue) pop() (Event, bool) {
	if q.read == q.write {
		return Event{}, false
	}
	ev := q.events[q.read]
	q.events[q.read] = Event{}
	q.read++
	return ev, true
}

// source abstracts the two input shapes: a byte stream and a chunk
// callable. Both remember the first I/O failure so it can be reported
// verbatim instead of wrapped as a syntax error.
type source interface {
	io.Reader
	failure() error
	release() error
}

type readerSource struct {
	r   io.Reader
	err error
}

func (s *readerSource) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && s.err == nil {
		s.err = err
	}
	return n, err
}

func (s *readerSource) failure() error {
	return s.err
}

func (s *readerSource) release() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type chunkSource struct {
	fn   ChunkFunc
	rest []byte
	eof  bool
	err  error
}

func (s *chunkSource) Read(p []byte) (int, error) {
	for len(s.rest) == 0 {
		if s.eof {
			return 0, io.EOF
		}
		chunk, err := s.fn()
		switch {
		case err != nil && errors.Is(err, io.EOF):
			s.eof = true
		case err != nil:
			if s.err == nil {
				s.err = err
			}
			return 0, err
		case len(chunk) == 0:
			s.eof = true
		}
		s.rest = chunk
	}
	n := copy(p, s.rest)
	s.rest = s.rest[n:]
	return n, nil
}

func (s *chunkSource) failure() error {
	return s.err
}

func (s *chunkSource) release() error {
	s.fn = nil
	s.rest = nil
	s.eof = true
	return nil
}
