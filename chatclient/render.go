package chatclient

import (
	"github.com/pkg/errors"

	"realtime-chat-client/dom"
)

// Renderer appends one node per inbound message to a container looked up by
// id. Message text is assigned as text content and never parsed as markup.
type Renderer struct {
	doc      dom.Document
	targetID string
	tag      string
	class    string
}

func NewRenderer(doc dom.Document, cfg Config) *Renderer {
	return &Renderer{
		doc:      doc,
		targetID: cfg.TargetID,
		tag:      cfg.MessageTag,
		class:    cfg.MessageClass,
	}
}

// Render appends text as the last child of the render target.
func (r *Renderer) Render(text string) error {
	if r.doc == nil {
		return errors.Wrap(ErrRenderTargetMissing, "no document")
	}
	target, ok := r.doc.GetElementByID(r.targetID)
	if !ok {
		return errors.Wrapf(ErrRenderTargetMissing, "#%s", r.targetID)
	}
	node, err := r.doc.CreateElement(r.tag)
	if err != nil {
		return errors.Wrap(err, "create message node")
	}
	if r.class != "" {
		node.SetClassName(r.class)
	}
	node.SetTextContent(text)
	if err := target.AppendChild(node); err != nil {
		return errors.Wrapf(err, "append to #%s", r.targetID)
	}
	return nil
}
