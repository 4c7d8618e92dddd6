package chatclient

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"realtime-chat-client/dom"
)

func TestRenderWithoutDocument(t *testing.T) {
	r := NewRenderer(nil, DefaultConfig())
	require.True(t, errors.Is(r.Render("x"), ErrRenderTargetMissing))
}

func TestRenderAppendsLiteralText(t *testing.T) {
	doc := dom.NewMemoryDocument()
	target := doc.AddContainer("div", "messages")
	r := NewRenderer(doc, DefaultConfig())

	require.NoError(t, r.Render(`<a href="javascript:x()">click</a>`))
	require.Equal(t,
		`<div id="messages"><div class="message">&lt;a href=&#34;javascript:x()&#34;&gt;click&lt;/a&gt;</div></div>`,
		target.OuterHTML())
}
