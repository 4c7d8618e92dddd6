// Package dom describes the slice of a browser document the chat client
// touches: element lookup by id, element creation, literal text assignment
// and child append.
//
// Two implementations ship with the module: MemoryDocument for tests and
// non-browser hosts, and a syscall/js backed document for GOOS=js builds.
package dom

// Document is the host document surface.
type Document interface {
	// GetElementByID returns the element with the given id, or false if the
	// document has no such element.
	GetElementByID(id string) (Element, bool)

	// CreateElement returns a new detached element with the given tag name.
	CreateElement(tag string) (Element, error)
}

// Element is a node that can carry text and children.
type Element interface {
	// SetTextContent replaces the children of the element with a single text
	// node. The value is never parsed as markup.
	SetTextContent(text string)

	SetClassName(class string)

	// AppendChild adds child as the last child of the element.
	AppendChild(child Element) error
}
