// Package chatclient is a WebSocket chat-room client.
//
// Connect opens one connection to ws://<host>:<port>/ws/<room>. The first
// frame the client writes is the username; every later frame in either
// direction is an opaque text message. Inbound text frames are rendered as
// children of a container element, looked up by id in a dom.Document.
//
// Diagram
//
//	+----------------+                          +----------------+
//	|     Client     |                          |     Server     |
//	+----------------+                          +----------------+
//	         |                                           |
//	         |------------- GET /ws/lobby -------------->|   state: Connecting
//	         |<- - HTTP/1.1 101 Switching Protocols - - -|
//	         |                                           |   state: Open
//	         |------------ Frame: "alice" -------------->|   join handshake
//	         |------------ Frame: "hi" ----------------->|   Send("hi")
//	         |<----------- Frame: "bob: hello" ----------|   rendered into #messages
//	         .                                           .
//
// Handlers bound to the transport live in a Registry until the connection
// reaches Closed or Errored, so the caller does not need to keep the *Client
// around for events to be processed.
//
// In GOOS=js builds the browser's WebSocket and document are used; elsewhere
// the transport is gorilla/websocket and the caller supplies the document
// with WithDocument.
package chatclient
