//go:build js && wasm

// main.go
// Browser host. Exposes a global WsClient(roomId, username) constructor; the
// returned object has send(message) and close(). Failures are returned as JS
// Error values instead of being thrown, since a panic would stop the Go
// program.

package main

import (
	"syscall/js"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"realtime-chat-client/chatclient"
)

// finishedSend and finishedClose replace the methods of a client object once
// its connection ends, so the per-connection js.Funcs can be released.
var (
	finishedSend = js.FuncOf(func(this js.Value, args []js.Value) any {
		return jsError(chatclient.ErrNotOpen)
	})
	finishedClose = js.FuncOf(func(this js.Value, args []js.Value) any {
		return js.Undefined()
	})
)

func jsError(err error) js.Value {
	return js.Global().Get("Error").New(err.Error())
}

func newClient(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.Global().Get("TypeError").New("WsClient(roomId, username)")
	}
	room, user := args[0].String(), args[1].String()

	obj := js.Global().Get("Object").New()
	obj.Set("state", chatclient.Connecting.String())
	c, err := chatclient.Connect(room, user,
		chatclient.WithErrorHandler(func(err error) {
			js.Global().Get("console").Call("error", err.Error())
		}),
		chatclient.WithStateHandler(func(from, to chatclient.State) {
			obj.Set("state", to.String())
		}),
	)
	if err != nil {
		return jsError(err)
	}
	obj.Set("url", c.URL())
	send := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return js.Global().Get("TypeError").New("send(message)")
		}
		if err := c.Send(args[0].String()); err != nil {
			return jsError(err)
		}
		return js.Undefined()
	})
	closeFn := js.FuncOf(func(this js.Value, args []js.Value) any {
		if err := c.Close(); err != nil {
			return jsError(err)
		}
		return js.Undefined()
	})
	obj.Set("send", send)
	obj.Set("close", closeFn)

	go func() {
		<-c.Done()
		obj.Set("send", finishedSend)
		obj.Set("close", finishedClose)
		send.Release()
		closeFn.Release()
	}()
	return obj
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: consoleWriter{}, NoColor: true})

	js.Global().Set("WsClient", js.FuncOf(newClient))
	log.Info().Msg("WsClient ready")
	select {}
}

// consoleWriter forwards log lines to console.log.
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	js.Global().Get("console").Call("log", string(p))
	return len(p), nil
}
