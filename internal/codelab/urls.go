package codelab

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// defaultBaseURLRoot is the raw-content root that codelab ids resolve under
// when no override is configured.
const defaultBaseURLRoot = "https://raw.githubusercontent.com/Snowflake-Labs/sfquickstarts/refs/heads/master/site/sfguides/src/"

var (
	htmlCommentRe = regexp.MustCompile(`(?s)<!--.*?-->`)
	htmlImgRe     = regexp.MustCompile(`(?i)<img[^>]*?>`)
	srcAttrRe     = regexp.MustCompile(`(?i)src\s*=\s*('([^']+)'|"([^"]+)")`)
	altAttrRe     = regexp.MustCompile(`(?i)alt\s*=\s*('([^']*)'|"([^"]*)")`)
	titleAttrRe   = regexp.MustCompile(`(?i)title\s*=\s*('([^']*)'|"([^"]*)")`)
	mdImageRe     = regexp.MustCompile(`!\[([^\]]*)\]\(([^\s)]+)(?:\s+"([^"]*)")?\)`)
	mdLinkRe      = regexp.MustCompile(`\[([^\]]+)\]\(([^\s)]+)(?:\s+"([^"]*)")?\)`)
)

// BaseURL derives the absolute asset root for a codelab id. An empty id
// yields an empty base URL, which disables rewriting entirely.
func BaseURL(root, contentID string) string {
	contentID = strings.Trim(strings.TrimSpace(contentID), "/")
	if contentID == "" {
		return ""
	}
	return root + contentID + "/"
}

// RewriteURL resolves a relative link target against baseURL. Absolute
// http(s) URLs, mailto: links, same-page anchors, and site-rooted paths pass
// through unchanged, as does everything when baseURL is empty.
func RewriteURL(raw, baseURL string) string {
	if raw == "" || baseURL == "" {
		return raw
	}
	raw = strings.TrimSpace(raw)
	if isAbsoluteURL(raw) || strings.HasPrefix(raw, "mailto:") || strings.HasPrefix(raw, "#") {
		return raw
	}
	if strings.HasPrefix(raw, "./") {
		return baseURL + raw[2:]
	}
	if !strings.HasPrefix(raw, "/") {
		return baseURL + raw
	}
	return raw
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// imgAttr extracts a single- or double-quoted attribute value from an HTML
// tag. The quoted-but-empty case still reports found.
func imgAttr(tag string, re *regexp.Regexp) (string, bool) {
	m := re.FindStringSubmatch(tag)
	if m == nil {
		return "", false
	}
	if strings.HasPrefix(m[1], "'") {
		return m[2], true
	}
	return m[3], true
}

// rewriteDocURLs rewrites every link and image target in text against
// baseURL. HTML comments are stripped first and <img> tags converted to
// markdown images, so that the markdown rewriting pass covers both forms.
func rewriteDocURLs(text, baseURL string) string {
	text = htmlCommentRe.ReplaceAllString(text, "")

	text = htmlImgRe.ReplaceAllStringFunc(text, func(tag string) string {
		src, ok := imgAttr(tag, srcAttrRe)
		if !ok {
			return tag
		}
		alt, ok := imgAttr(tag, altAttrRe)
		if !ok {
			alt = "image"
		}
		title, ok := imgAttr(tag, titleAttrRe)
		if !ok {
			title = "Image"
		}
		return fmt.Sprintf("![%s](%s \"%s\")", alt, RewriteURL(src, baseURL), title)
	})

	text = mdImageRe.ReplaceAllStringFunc(text, func(match string) string {
		m := mdImageRe.FindStringSubmatch(match)
		return "!" + formatLink(m[1], RewriteURL(m[2], baseURL), m[3])
	})
	text = mdLinkRe.ReplaceAllStringFunc(text, func(match string) string {
		m := mdLinkRe.FindStringSubmatch(match)
		return formatLink(m[1], RewriteURL(m[2], baseURL), m[3])
	})
	return text
}

func formatLink(text, target, title string) string {
	if title != "" {
		return fmt.Sprintf("[%s](%s \"%s\")", text, target, title)
	}
	return fmt.Sprintf("[%s](%s)", text, target)
}
