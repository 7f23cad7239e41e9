package site

import (
	"encoding/xml"
	"io"

	"github.com/gorilla/feeds"

	"github.com/eringen/loomreport"
)

// Feed builds the RSS feed for posts. Item links are absolute.
func Feed(info Info, posts []loomreport.Post) *feeds.Feed {
	feed := &feeds.Feed{
		Title:       info.Name,
		Link:        &feeds.Link{Href: info.URL},
		Description: info.Description,
	}
	if len(posts) > 0 {
		feed.Updated = posts[0].Date
	}
	for _, p := range posts {
		link := info.URL + p.URL
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Description: p.Description,
			Created:     p.Date,
		})
	}
	return feed
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// WriteSitemap writes a sitemaps.org document listing the home page and
// every post.
func WriteSitemap(w io.Writer, info Info, posts []loomreport.Post) error {
	urls := []sitemapURL{
		{Loc: loomreport.BuildURL(info.URL)},
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     info.URL + p.URL,
			LastMod: HTMLDateString(p.Date),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(sitemap)
}
