//go:build js && wasm

package dom

import (
	"syscall/js"

	"github.com/pkg/errors"
)

// JSDocument wraps the browser's document object.
type JSDocument struct {
	doc js.Value
}

// JSElement wraps a browser element.
type JSElement struct {
	el js.Value
}

// Global returns the document of the current window.
func Global() (*JSDocument, error) {
	doc := js.Global().Get("document")
	if doc.IsUndefined() || doc.IsNull() {
		return nil, errors.New("no document in global scope")
	}
	return &JSDocument{doc: doc}, nil
}

func (d *JSDocument) GetElementByID(id string) (Element, bool) {
	el := d.doc.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return nil, false
	}
	return &JSElement{el: el}, true
}

func (d *JSDocument) CreateElement(tag string) (el Element, err error) {
	// createElement throws on invalid tag names; syscall/js turns that into a panic.
	defer func() {
		if r := recover(); r != nil {
			el, err = nil, errors.Errorf("createElement(%q): %v", tag, r)
		}
	}()
	return &JSElement{el: d.doc.Call("createElement", tag)}, nil
}

// SetTextContent assigns textContent; innerHTML is never used.
func (e *JSElement) SetTextContent(text string) {
	e.el.Set("textContent", text)
}

func (e *JSElement) SetClassName(class string) {
	e.el.Set("className", class)
}

func (e *JSElement) AppendChild(child Element) (err error) {
	c, ok := child.(*JSElement)
	if !ok {
		return ErrForeignElement
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("appendChild: %v", r)
		}
	}()
	e.el.Call("appendChild", c.el)
	return nil
}
