package dom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryDocumentLookup(t *testing.T) {
	doc := NewMemoryDocument()
	_, ok := doc.GetElementByID("messages")
	require.False(t, ok)

	doc.AddContainer("div", "messages")
	el, ok := doc.GetElementByID("messages")
	require.True(t, ok)
	require.Equal(t, "messages", el.(*MemoryElement).ID())

	doc.RemoveContainer("messages")
	_, ok = doc.GetElementByID("messages")
	require.False(t, ok)
}

func TestMemoryElementAppendKeepsOrder(t *testing.T) {
	doc := NewMemoryDocument()
	root := doc.AddContainer("div", "messages")

	for _, text := range []string{"one", "two", "three"} {
		el, err := doc.CreateElement("div")
		require.NoError(t, err)
		el.SetTextContent(text)
		require.NoError(t, root.AppendChild(el))
	}

	children := root.Children()
	require.Len(t, children, 3)
	require.Equal(t, "one", children[0].TextContent())
	require.Equal(t, "two", children[1].TextContent())
	require.Equal(t, "three", children[2].TextContent())
	require.Equal(t, "onetwothree", root.TextContent())
}

func TestMemoryElementTextIsLiteral(t *testing.T) {
	doc := NewMemoryDocument()
	root := doc.AddContainer("div", "messages")
	el, err := doc.CreateElement("div")
	require.NoError(t, err)
	el.SetClassName("message")
	el.SetTextContent(`<img src=x onerror="alert(1)">`)
	require.NoError(t, root.AppendChild(el))

	child := root.Children()[0]
	require.Empty(t, child.Children())
	require.Equal(t, `<img src=x onerror="alert(1)">`, child.TextContent())
	require.Equal(t,
		`<div class="message">&lt;img src=x onerror=&#34;alert(1)&#34;&gt;</div>`,
		child.OuterHTML())
}

func TestMemoryElementReparent(t *testing.T) {
	doc := NewMemoryDocument()
	a := doc.AddContainer("div", "a")
	b := doc.AddContainer("div", "b")
	el, err := doc.CreateElement("span")
	require.NoError(t, err)

	require.NoError(t, a.AppendChild(el))
	require.NoError(t, b.AppendChild(el))
	require.Empty(t, a.Children())
	require.Len(t, b.Children(), 1)
}

func TestMemoryElementRejectsForeignChild(t *testing.T) {
	doc := NewMemoryDocument()
	other := NewMemoryDocument()
	root := doc.AddContainer("div", "messages")
	el, err := other.CreateElement("div")
	require.NoError(t, err)
	require.ErrorIs(t, root.AppendChild(el), ErrForeignElement)

	_, err = doc.CreateElement("")
	require.Error(t, err)
}

func TestMemoryElementRejectsCycles(t *testing.T) {
	doc := NewMemoryDocument()
	root := doc.AddContainer("div", "messages")
	child, err := doc.CreateElement("div")
	require.NoError(t, err)
	grandchild, err := doc.CreateElement("span")
	require.NoError(t, err)
	require.NoError(t, root.AppendChild(child))
	require.NoError(t, child.AppendChild(grandchild))
	grandchild.SetTextContent("x")

	require.ErrorIs(t, root.AppendChild(root), ErrHierarchyRequest)
	require.ErrorIs(t, grandchild.AppendChild(root), ErrHierarchyRequest)
	require.ErrorIs(t, grandchild.AppendChild(child), ErrHierarchyRequest)

	// The tree is unchanged and still finite.
	require.Equal(t, "x", root.TextContent())
	require.Equal(t, `<div id="messages"><div><span>x</span></div></div>`, root.OuterHTML())
}
