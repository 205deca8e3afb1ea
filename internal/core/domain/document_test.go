package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDocument_BodyRegion(t *testing.T) {
	raw := `<html><head><title>head</title></head><body><h1>Bg. 2.13</h1><p>As the embodied soul...</p></body></html>`

	view := ExtractDocument("/books/en/bg/2/13/index.html", raw, "Bhagavad-gita - Chapter 2, Verse 13")

	assert.Equal(t, "/books/en/bg/2/13/index.html", view.Path)
	assert.Equal(t, "Bhagavad-gita - Chapter 2, Verse 13", view.Title)
	assert.Contains(t, view.HTML, "As the embodied soul")
	assert.NotContains(t, view.HTML, "<title>")
}

func TestExtractDocument_MainFallback(t *testing.T) {
	raw := `<main><p>content in main</p></main>`

	view := ExtractDocument("/p", raw, "t")

	assert.Contains(t, view.HTML, "content in main")
}

func TestExtractDocument_RawFallback(t *testing.T) {
	raw := `<p>bare fragment</p>`

	view := ExtractDocument("/p", raw, "t")

	assert.Contains(t, view.HTML, "bare fragment")
}

func TestExtractDocument_StripsScripts(t *testing.T) {
	raw := `<body><p>text</p><script>alert("x")</script><p>more</p></body>`

	view := ExtractDocument("/p", raw, "t")

	assert.NotContains(t, view.HTML, "alert")
	assert.Contains(t, view.HTML, "more")
}

func TestExtractDocument_TitleFromH1(t *testing.T) {
	raw := `<body><h1><span>Sb.</span> 1.1.1</h1></body>`

	view := ExtractDocument("/p", raw, "")

	assert.Equal(t, "Sb. 1.1.1", view.Title)
}

func TestExtractDocument_DefaultTitle(t *testing.T) {
	view := ExtractDocument("/p", "<body><p>no heading</p></body>", "")

	assert.Equal(t, "Text View", view.Title)
}

func TestExtractDocument_Links(t *testing.T) {
	raw := `<body>
		<a href="../14/index.html">Next verse</a>
		<a href="https://example.com">external</a>
		<a href="#top">anchor</a>
		<a href="12/index.html"><b>Verse 12</b></a>
	</body>`

	view := ExtractDocument("/p", raw, "t")

	require.Len(t, view.Links, 2)
	assert.Equal(t, "../14/index.html", view.Links[0].Href)
	assert.Equal(t, "Next verse", view.Links[0].Text)
	assert.Equal(t, "12/index.html", view.Links[1].Href)
	assert.Equal(t, "Verse 12", view.Links[1].Text)
}

func TestResolveRelativeLink(t *testing.T) {
	tests := []struct {
		name    string
		current string
		href    string
		want    string
	}{
		{"sibling file", "/books/en/bg/2/13/index.html", "14/index.html", "/books/en/bg/2/13/14/index.html"},
		{"parent traversal", "/books/en/bg/2/13/index.html", "../14/index.html", "/books/en/bg/2/14/index.html"},
		{"deep traversal", "/books/en/bg/2/13/index.html", "../../3/1/index.html", "/books/en/bg/3/1/index.html"},
		{"absolute url passes through", "/books/en/bg/2/13/index.html", "https://example.com/x", "https://example.com/x"},
		{"fragment passes through", "/books/en/bg/2/13/index.html", "#purport", "#purport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveRelativeLink(tt.current, tt.href))
		})
	}
}

func TestStripTags(t *testing.T) {
	html := `<p>First paragraph.</p><p>Second &amp; third &lt;part&gt;.</p>`

	text := StripTags(html)

	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "Second & third <part>.")
	assert.NotContains(t, text, "<p>")
}

func TestStripTags_CollapsesBlankRuns(t *testing.T) {
	html := `<div>a</div><div></div><div></div><div>b</div>`

	text := StripTags(html)

	assert.NotContains(t, text, "\n\n\n")
}
