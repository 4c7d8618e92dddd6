//go:build js && wasm

package chatclient

import (
	"syscall/js"

	"github.com/pkg/errors"
)

// readyState values of the browser WebSocket.
const (
	jsStateConnecting = 0
	jsStateOpen       = 1
)

type jsDialer struct{}

// NewJSDialer returns a Dialer backed by the browser's WebSocket constructor.
func NewJSDialer() Dialer { return jsDialer{} }

func (jsDialer) Open(rawURL string) (t Transport, err error) {
	// The constructor throws a SyntaxError for malformed URLs.
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, errors.Errorf("new WebSocket: %v", r)
		}
	}()
	ws := js.Global().Get("WebSocket").New(rawURL)
	ws.Set("binaryType", "arraybuffer")
	return &jsTransport{ws: ws}, nil
}

type jsTransport struct {
	ws    js.Value
	funcs []js.Func
}

// Bind installs js.Func wrappers as the on* properties of the socket. The
// wrappers stay valid until release, which detaches and frees them.
func (t *jsTransport) Bind(h Handlers) func() {
	if t.funcs != nil {
		return func() {}
	}
	bind := func(prop string, fn func(args []js.Value)) {
		f := js.FuncOf(func(this js.Value, args []js.Value) any {
			fn(args)
			return nil
		})
		t.funcs = append(t.funcs, f)
		t.ws.Set(prop, f)
	}

	bind("onopen", func([]js.Value) {
		if h.OnOpen != nil {
			h.OnOpen()
		}
	})
	bind("onmessage", func(args []js.Value) {
		if h.OnMessage == nil || len(args) == 0 {
			return
		}
		data := args[0].Get("data")
		if data.Type() == js.TypeString {
			h.OnMessage(Frame{Kind: TextFrame, Data: []byte(data.String())})
			return
		}
		array := js.Global().Get("Uint8Array").New(data)
		b := make([]byte, array.Length())
		js.CopyBytesToGo(b, array)
		h.OnMessage(Frame{Kind: BinaryFrame, Data: b})
	})
	bind("onclose", func([]js.Value) {
		if h.OnClose != nil {
			h.OnClose()
		}
	})
	bind("onerror", func([]js.Value) {
		if h.OnError != nil {
			h.OnError(errors.New("websocket error event"))
		}
	})

	return func() {
		for _, prop := range []string{"onopen", "onmessage", "onclose", "onerror"} {
			t.ws.Set(prop, js.Null())
		}
		for _, f := range t.funcs {
			f.Release()
		}
		t.funcs = t.funcs[:0]
	}
}

func (t *jsTransport) SendText(msg string) (err error) {
	if state := t.ws.Get("readyState").Int(); state != jsStateOpen {
		if state == jsStateConnecting {
			return errors.New("socket still connecting")
		}
		return errors.New("socket closing or closed")
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("send: %v", r)
		}
	}()
	t.ws.Call("send", msg)
	return nil
}

func (t *jsTransport) Close() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("close: %v", r)
		}
	}()
	t.ws.Call("close")
	return nil
}
