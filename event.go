package votable

// EventKind discriminates the two event shapes a Parser yields.
type EventKind uint8

const (
	// EventStart marks an element open tag. The event carries the
	// element's attributes.
	EventStart EventKind = iota + 1
	// EventEnd marks an element close tag. The event carries the text
	// retained for the element, trimmed of surrounding whitespace.
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventEnd:
		return "end"
	default:
		return "invalid"
	}
}

// Attr is one attribute of a start event. Name keeps any namespace
// prefix as written in the document.
type Attr struct {
	Name  string
	Value string
}

// Attrs holds a start event's attributes in document order.
type Attrs []Attr

// Get returns the value of the named attribute and whether it was
// present.
func (a Attrs) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Event is one element boundary in the document. Line and Column are
// 1-based and locate the tag that produced the event.
type Event struct {
	Kind   EventKind
	Name   string
	Attrs  Attrs
	Text   string
	Line   int
	Column int
}
