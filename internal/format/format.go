// Package format turns single catalog entries into view fragments.
//
// Every function here is pure: the result depends only on the entry and the
// Formatter's host settings.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/starford/modcatalog/internal/catalog"
	"github.com/starford/modcatalog/internal/dom"
)

// Star glyphs.
const (
	HollowStar = "☆"
	FilledStar = "★ "
)

// iconSize is the fixed icon box edge in pixels.
const iconSize = "50"

// Formatter holds the hosts used to derive URLs.
type Formatter struct {
	HomePrefix     string
	CodeHost       string
	RawContentHost string
}

// New returns a Formatter. Trailing slashes on hosts and surrounding
// slashes on the prefix are trimmed.
func New(homePrefix, codeHost, rawContentHost string) Formatter {
	return Formatter{
		HomePrefix:     strings.Trim(homePrefix, "/"),
		CodeHost:       strings.TrimRight(codeHost, "/"),
		RawContentHost: strings.TrimRight(rawContentHost, "/"),
	}
}

// ArchiveURL returns the master branch archive URL. A repo without "/"
// yields a URL that does not resolve.
func (f Formatter) ArchiveURL(e catalog.Entry) string {
	return fmt.Sprintf("%s/%s/archive/master.zip", f.CodeHost, e.Repo)
}

// ArchiveLink links to the archive.
func (f Formatter) ArchiveLink(e catalog.Entry) *dom.Node {
	return dom.El("a", dom.Attrs("href", f.ArchiveURL(e)), dom.Text("zip"))
}

// EndpointHref is the locally rendered README page for the entry.
func (f Formatter) EndpointHref(e catalog.Entry) string {
	return fmt.Sprintf("/%s/m/%s.html", f.HomePrefix, strings.ReplaceAll(e.Repo, "/", "--"))
}

// EndpointLink is the card title linking to EndpointHref.
func (f Formatter) EndpointLink(e catalog.Entry) *dom.Node {
	return dom.El("a", dom.Attrs("href", f.EndpointHref(e), "class", "title"), dom.Text(e.Name))
}

// RepoLink links to the canonical repository.
func (f Formatter) RepoLink(e catalog.Entry) *dom.Node {
	return dom.El("a", dom.Attrs("href", e.Link), dom.Text("repository"))
}

// WikiLink links to the wiki, or is a hidden placeholder keeping the slot.
func (f Formatter) WikiLink(e catalog.Entry) *dom.Node {
	if e.Wiki == nil {
		return dom.El("a", dom.Attrs("style", "display: none"))
	}
	return dom.El("a", dom.Attrs("href", *e.Wiki), dom.Text("wiki"))
}

// LastCommit renders the upstream relative time.
func (f Formatter) LastCommit(e catalog.Entry) *dom.Node {
	return dom.El("span", dom.Attrs("class", "last-commit"), dom.Text(e.LastCommitAgo+" ago"))
}

// Stars renders the popularity glyphs.
func (f Formatter) Stars(e catalog.Entry) *dom.Node {
	return dom.El("span", dom.Attrs("class", "stars"), dom.Text(StarGlyphs(uint64(e.Stars))))
}

// StarGlyphs returns one filled star per count, or a single hollow star for
// zero. Counts whose glyph string cannot be addressed render as "err"; on
// 64-bit platforms every uint32 count fits.
func StarGlyphs(n uint64) string {
	if !glyphsFit(n) {
		return "err"
	}
	if n == 0 {
		return HollowStar
	}
	return strings.Repeat(FilledStar, int(n))
}

func glyphsFit(n uint64) bool {
	return n <= uint64(math.MaxInt/len(FilledStar))
}

// IconURL resolves the icon against the raw content host.
func (f Formatter) IconURL(e catalog.Entry) (string, bool) {
	p, ok := e.Icon()
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s/%s/master/%s", f.RawContentHost, e.Repo, p), true
}

// Icon renders the linked icon, or a bordered placeholder box without a
// link target.
func (f Formatter) Icon(e catalog.Entry) *dom.Node {
	src, ok := f.IconURL(e)
	if !ok {
		return dom.El("a", nil,
			dom.El("svg", dom.Attrs("width", iconSize, "height", iconSize),
				dom.El("rect", dom.Attrs("width", iconSize, "height", iconSize, "stroke", "#f0f0f0")),
			),
		)
	}
	return dom.El("a", dom.Attrs("href", f.EndpointHref(e)),
		dom.El("img", dom.Attrs("src", src, "style", "width: "+iconSize+"px")),
	)
}

// Description renders the free text.
func (f Formatter) Description(e catalog.Entry) *dom.Node {
	return dom.El("p", dom.Attrs("class", "description"), dom.Text(e.Description))
}

// Card composes the listing item for one entry.
func (f Formatter) Card(e catalog.Entry) *dom.Node {
	return dom.El("div", dom.Attrs("class", "wrapper"),
		dom.El("div", dom.Attrs("class", "links"),
			f.Icon(e),
			f.EndpointLink(e),
			f.RepoLink(e),
			f.ArchiveLink(e),
			f.WikiLink(e),
		),
		dom.El("div", dom.Attrs("class", "meta"),
			f.Stars(e),
			f.LastCommit(e),
		),
		f.Description(e),
	)
}
