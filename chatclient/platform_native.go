//go:build !js

package chatclient

import "realtime-chat-client/dom"

func defaultDialer(cfg Config) Dialer { return NewWSDialer(cfg.HandshakeTimeout, cfg.WriteTimeout) }

// Outside a browser there is no ambient document; callers pass one with
// WithDocument.
func defaultDocument() dom.Document { return nil }
