package dom

import (
	"html"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ErrForeignElement is returned when an element from another document is
// appended to a MemoryDocument element.
var ErrForeignElement = errors.New("element does not belong to this document")

// ErrHierarchyRequest is returned when appending an element would make it its
// own ancestor.
var ErrHierarchyRequest = errors.New("element cannot contain itself or an ancestor")

// MemoryDocument is an in-memory Document. It is safe for concurrent use.
type MemoryDocument struct {
	mu   sync.Mutex
	byID map[string]*MemoryElement
}

// MemoryElement is an element owned by a MemoryDocument.
type MemoryElement struct {
	doc       *MemoryDocument
	tag       string
	id        string
	className string
	text      string
	children  []*MemoryElement
	parent    *MemoryElement
}

func NewMemoryDocument() *MemoryDocument {
	return &MemoryDocument{byID: map[string]*MemoryElement{}}
}

// AddContainer creates an element with the given tag and id and makes it
// reachable through GetElementByID.
func (d *MemoryDocument) AddContainer(tag, id string) *MemoryElement {
	el := &MemoryElement{doc: d, tag: tag, id: id}
	d.mu.Lock()
	d.byID[id] = el
	d.mu.Unlock()
	return el
}

// RemoveContainer drops the element with the given id from the index.
func (d *MemoryDocument) RemoveContainer(id string) {
	d.mu.Lock()
	delete(d.byID, id)
	d.mu.Unlock()
}

func (d *MemoryDocument) GetElementByID(id string) (Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.byID[id]
	if !ok {
		return nil, false
	}
	return el, true
}

func (d *MemoryDocument) CreateElement(tag string) (Element, error) {
	if tag == "" {
		return nil, errors.New("empty tag name")
	}
	return &MemoryElement{doc: d, tag: tag}, nil
}

func (e *MemoryElement) SetTextContent(text string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
	e.text = text
}

func (e *MemoryElement) SetClassName(class string) {
	e.doc.mu.Lock()
	e.className = class
	e.doc.mu.Unlock()
}

func (e *MemoryElement) AppendChild(child Element) error {
	c, ok := child.(*MemoryElement)
	if !ok || c.doc != e.doc {
		return ErrForeignElement
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for p := e; p != nil; p = p.parent {
		if p == c {
			return ErrHierarchyRequest
		}
	}
	if c.parent != nil {
		c.parent.removeChildLocked(c)
	}
	c.parent = e
	e.children = append(e.children, c)
	return nil
}

func (e *MemoryElement) removeChildLocked(c *MemoryElement) {
	for i, existing := range e.children {
		if existing == c {
			e.children = append(e.children[:i], e.children[i+1:]...)
			return
		}
	}
}

func (e *MemoryElement) Tag() string { return e.tag }

func (e *MemoryElement) ID() string { return e.id }

func (e *MemoryElement) ClassName() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.className
}

// TextContent returns the concatenated text of the element and its
// descendants, like the DOM property of the same name.
func (e *MemoryElement) TextContent() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	var b strings.Builder
	e.writeTextLocked(&b)
	return b.String()
}

func (e *MemoryElement) writeTextLocked(b *strings.Builder) {
	b.WriteString(e.text)
	for _, c := range e.children {
		c.writeTextLocked(b)
	}
}

// Children returns a snapshot of the element's children in order.
func (e *MemoryElement) Children() []*MemoryElement {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	out := make([]*MemoryElement, len(e.children))
	copy(out, e.children)
	return out
}

// OuterHTML serializes the element. Text is escaped, so it shows exactly how a
// browser would display literal text content.
func (e *MemoryElement) OuterHTML() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	var b strings.Builder
	e.writeHTMLLocked(&b)
	return b.String()
}

func (e *MemoryElement) writeHTMLLocked(b *strings.Builder) {
	b.WriteString("<" + e.tag)
	if e.id != "" {
		b.WriteString(` id="` + html.EscapeString(e.id) + `"`)
	}
	if e.className != "" {
		b.WriteString(` class="` + html.EscapeString(e.className) + `"`)
	}
	b.WriteString(">")
	b.WriteString(html.EscapeString(e.text))
	for _, c := range e.children {
		c.writeHTMLLocked(b)
	}
	b.WriteString("</" + e.tag + ">")
}
