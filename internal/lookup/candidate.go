package lookup

import (
	"strings"

	"readinglog/internal/platform/googlebooks"
)

const (
	UnknownTitle  = "unknown title"
	UnknownAuthor = "unknown author"
)

// Candidate is a lookup hit shown to the user before it becomes a record.
type Candidate struct {
	Title        string `json:"title"`
	Authors      string `json:"authors"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func candidateFromVolume(info googlebooks.VolumeInfo) Candidate {
	c := Candidate{
		Title:   strings.TrimSpace(info.Title),
		Authors: UnknownAuthor,
	}
	if c.Title == "" {
		c.Title = UnknownTitle
	}

	authors := make([]string, 0, len(info.Authors))
	for _, a := range info.Authors {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	if len(authors) > 0 {
		c.Authors = strings.Join(authors, ", ")
	}

	if info.ImageLinks != nil {
		c.ThumbnailURL = upgradeThumbnail(info.ImageLinks.Thumbnail)
	}
	return c
}

// upgradeThumbnail asks for the larger image and forces https.
func upgradeThumbnail(u string) string {
	if u == "" {
		return ""
	}
	u = strings.Replace(u, "zoom=1", "zoom=0", 1)
	if strings.HasPrefix(u, "http://") {
		u = "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}
