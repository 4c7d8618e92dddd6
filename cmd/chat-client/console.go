package main

import (
	"fmt"
	"io"
	"sync"

	"realtime-chat-client/dom"
)

// consoleDocument is a document with a single container. Every node appended
// to the container is printed as one line.
type consoleDocument struct {
	mu       sync.Mutex
	out      io.Writer
	targetID string
}

type consoleElement struct {
	doc      *consoleDocument
	target   bool
	text     string
	appended int
}

func newConsoleDocument(out io.Writer, targetID string) *consoleDocument {
	return &consoleDocument{out: out, targetID: targetID}
}

func (d *consoleDocument) GetElementByID(id string) (dom.Element, bool) {
	if id != d.targetID {
		return nil, false
	}
	return &consoleElement{doc: d, target: true}, true
}

func (d *consoleDocument) CreateElement(string) (dom.Element, error) {
	return &consoleElement{doc: d}, nil
}

func (e *consoleElement) SetTextContent(text string) { e.text = text }

func (e *consoleElement) SetClassName(string) {}

func (e *consoleElement) AppendChild(child dom.Element) error {
	c, ok := child.(*consoleElement)
	if !ok {
		return dom.ErrForeignElement
	}
	if !e.target {
		e.text += c.text
		return nil
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.appended++
	_, err := fmt.Fprintln(e.doc.out, c.text)
	return err
}
