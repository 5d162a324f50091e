package dom

import (
	"strings"
	"testing"
)

func TestFindAndText(t *testing.T) {
	doc, err := ParseString(`<html><body><article class="page"><h1 id="a">Hello <em>World</em></h1><p>one</p><p>two</p></article></body></html>`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	paras := Find(doc, "article.page p")
	if len(paras) != 2 {
		t.Fatalf("found %d paragraphs, want 2", len(paras))
	}
	if got := Text(paras[1]); got != "two" {
		t.Errorf("Text = %q, want %q", got, "two")
	}
	h := ByID(doc, "a")
	if h == nil {
		t.Fatal("ByID returned nil")
	}
	if got := Text(h); got != "Hello World" {
		t.Errorf("heading text = %q", got)
	}
	if HeadingLevel(h) != 1 {
		t.Errorf("HeadingLevel = %d, want 1", HeadingLevel(h))
	}
}

func TestFindExcludesRoot(t *testing.T) {
	nodes, err := ParseFragment(`<div class="x"><div class="x"></div></div>`)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	if got := len(Find(nodes[0], ".x")); got != 1 {
		t.Errorf("Find matched %d nodes, want 1 (descendants only)", got)
	}
}

func TestClassOps(t *testing.T) {
	n := Element("a", "class", "toc-link")
	AddClass(n, "active")
	AddClass(n, "active")
	if got := Attr(n, "class"); got != "toc-link active" {
		t.Errorf("class = %q", got)
	}
	ToggleClass(n, "active", false)
	if HasClass(n, "active") {
		t.Error("active should be removed")
	}
	RemoveClass(n, "toc-link")
	if HasAttr(n, "class") {
		t.Error("empty class attribute should be dropped")
	}
}

func TestCloneIsDeepAndDetached(t *testing.T) {
	nodes, _ := ParseFragment(`<ul><li>a</li><li>b</li></ul>`)
	orig := nodes[0]
	c := Clone(orig)
	if c.Parent != nil {
		t.Error("clone should be detached")
	}
	SetText(c.FirstChild, "changed")
	if Text(orig) != "ab" {
		t.Errorf("original mutated: %q", Text(orig))
	}
	if Render(c) != "<ul><li>changed</li><li>b</li></ul>" {
		t.Errorf("clone render = %q", Render(c))
	}
}

func TestNormalizeMergesText(t *testing.T) {
	p := Element("p")
	p.AppendChild(NewText("a"))
	p.AppendChild(NewText(""))
	p.AppendChild(NewText("b"))
	em := Element("em")
	em.AppendChild(NewText("c"))
	em.AppendChild(NewText("d"))
	p.AppendChild(em)
	Normalize(p)

	if len(Children(p)) != 2 {
		t.Fatalf("children = %d, want 2", len(Children(p)))
	}
	if p.FirstChild.Data != "ab" {
		t.Errorf("merged text = %q", p.FirstChild.Data)
	}
	if len(Children(em)) != 1 {
		t.Errorf("nested text not merged")
	}
}

func TestReplaceChildrenMovesNodes(t *testing.T) {
	nodes, _ := ParseFragment(`<div id="src"><p>1</p><p>2</p></div><div id="dst"><span>old</span></div>`)
	src, dst := nodes[0], nodes[1]
	ReplaceChildren(dst, Children(src)...)
	if src.FirstChild != nil {
		t.Error("source should be empty after move")
	}
	if got := RenderChildren(dst); !strings.HasPrefix(got, "<p>1</p>") || strings.Contains(got, "old") {
		t.Errorf("dst = %q", got)
	}
}
