package domain

import (
	"path"
	"regexp"
	"strings"
)

// DocumentView is the displayable form of a fetched corpus document.
type DocumentView struct {
	// Path is the corpus path the content was actually served from.
	// After a language fallback this differs from the requested path.
	Path string

	// Title is the display title.
	Title string

	// HTML is the displayable region with script blocks removed.
	HTML string

	// Links are the in-document relative links, in document order.
	Links []DocumentLink
}

// DocumentLink is an anchor found inside a document.
type DocumentLink struct {
	Href string
	Text string
}

// Pre-compiled regular expressions for document extraction.
var (
	bodyRegion = regexp.MustCompile(`(?is)<body[^>]*>(.*)</body>`)
	mainRegion = regexp.MustCompile(`(?is)<main[^>]*>(.*)</main>`)
	scriptTag  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	h1Tag      = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	anchorTag  = regexp.MustCompile(`(?is)<a\s[^>]*href\s*=\s*"([^"]*)"[^>]*>(.*?)</a>`)
	anyTag     = regexp.MustCompile(`<[^>]+>`)
)

// defaultDocumentTitle is used when neither the caller nor the document
// supplies a title.
const defaultDocumentTitle = "Text View"

// ExtractDocument turns raw document HTML into a DocumentView. The first
// <body> region is preferred, then the first <main> region, else the raw
// payload; script blocks are stripped from the result. When title is empty
// the first <h1> supplies it, tags removed.
func ExtractDocument(docPath, rawHTML, title string) DocumentView {
	content := rawHTML
	if m := bodyRegion.FindStringSubmatch(rawHTML); m != nil {
		content = m[1]
	} else if m := mainRegion.FindStringSubmatch(rawHTML); m != nil {
		content = m[1]
	}
	content = scriptTag.ReplaceAllString(content, "")

	if title == "" {
		if m := h1Tag.FindStringSubmatch(rawHTML); m != nil {
			title = strings.TrimSpace(anyTag.ReplaceAllString(m[1], ""))
		}
	}
	if title == "" {
		title = defaultDocumentTitle
	}

	return DocumentView{
		Path:  docPath,
		Title: title,
		HTML:  content,
		Links: extractLinks(content),
	}
}

// extractLinks collects navigable relative anchors. Absolute URLs and
// in-page fragments are skipped; they are left to native handling.
func extractLinks(content string) []DocumentLink {
	var links []DocumentLink
	for _, m := range anchorTag.FindAllStringSubmatch(content, -1) {
		href := strings.TrimSpace(m[1])
		if href == "" || strings.HasPrefix(href, "http") || strings.HasPrefix(href, "#") {
			continue
		}
		text := strings.TrimSpace(anyTag.ReplaceAllString(m[2], ""))
		links = append(links, DocumentLink{Href: href, Text: text})
	}
	return links
}

// ResolveRelativeLink resolves a relative href found in the document at
// currentPath against that document's directory, following POSIX relative
// path rules ('.', '..', plain segments). Absolute URLs and fragments are
// returned unresolved.
func ResolveRelativeLink(currentPath, href string) string {
	if strings.HasPrefix(href, "http") || strings.HasPrefix(href, "#") {
		return href
	}
	return path.Join(path.Dir(currentPath), href)
}

// StripTags flattens an HTML fragment into plain text for terminal display.
// Block-level closers become newlines so paragraphs stay separated.
func StripTags(fragment string) string {
	text := blockClose.ReplaceAllString(fragment, "\n")
	text = brTag.ReplaceAllString(text, "\n")
	text = anyTag.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.ReplaceAll(text, "&#39;", "'")
	text = multiNewline.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

var (
	blockClose   = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|section|article)>`)
	brTag        = regexp.MustCompile(`(?i)<br\s*/?>`)
	multiNewline = regexp.MustCompile(`\n{3,}`)
)
