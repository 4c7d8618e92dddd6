//go:build js && wasm

package chatclient

import "realtime-chat-client/dom"

func defaultDialer(Config) Dialer { return NewJSDialer() }

func defaultDocument() dom.Document {
	doc, err := dom.Global()
	if err != nil {
		return nil
	}
	return doc
}
