package plugins

import (
	"bytes"
	"context"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/shpaw415/frame-master-sub000/internal/capture"
	"github.com/shpaw415/frame-master-sub000/internal/types"
)

// generatorName is the value stamped into the generator meta tag.
const generatorName = "frame-master"

// HTMLMeta returns the builtin finalizer plugin that stamps markup output
// with a generator meta tag. Being a finalizer it runs for every resource
// that ends up as markup, whether a transform chain produced it or the
// host's default loading did.
func HTMLMeta() capture.Plugin {
	return capture.Plugin{
		Name: "htmlmeta",
		Setup: func(b capture.Builder) error {
			return b.OnFinalize(types.KindMarkup, injectGenerator)
		},
	}
}

func injectGenerator(_ context.Context, in types.FinalizeInput) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(in.Content))
	if err != nil {
		return nil, err
	}

	head := findElement(doc, atom.Head)
	if head != nil && !hasGeneratorMeta(head) {
		head.AppendChild(&html.Node{
			Type:     html.ElementNode,
			Data:     "meta",
			DataAtom: atom.Meta,
			Attr: []html.Attribute{
				{Key: "name", Val: "generator"},
				{Key: "content", Val: generatorName},
			},
		})
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func hasGeneratorMeta(head *html.Node) bool {
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Meta {
			continue
		}
		for _, attr := range c.Attr {
			if attr.Key == "name" && attr.Val == "generator" {
				return true
			}
		}
	}
	return false
}
