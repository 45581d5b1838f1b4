package stremio

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/lepinkainen/showrunner/internal/media"
)

const unknownRelease = "Unknown Release"

var (
	sizePattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?\s?[KMGT]B)`)
	seedsPattern = regexp.MustCompile(`👤\s?(\d+)`)
)

type streamResponse struct {
	Streams []rawStream `json:"streams"`
}

type rawStream struct {
	Name          string        `json:"name"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	URL           string        `json:"url"`
	InfoHash      string        `json:"infoHash"`
	Seeds         *int          `json:"seeds"`
	Seeders       *int          `json:"seeders"`
	BehaviorHints behaviorHints `json:"behaviorHints"`
}

type behaviorHints struct {
	Filename  string `json:"filename"`
	VideoSize int64  `json:"videoSize"`
}

func (s rawStream) record(provider string) (media.StreamRecord, bool) {
	link := streamLink(s.URL, s.InfoHash)
	if link == "" {
		return media.StreamRecord{}, false
	}

	text := s.Title
	if text == "" {
		text = s.Description
	}
	tag := strings.TrimSpace(strings.ReplaceAll(s.Name, "\n", " "))

	rec := media.StreamRecord{
		ProviderName: provider,
		Tag:          tag,
		Title:        releaseTitle(text, s.BehaviorHints.Filename, link),
		Link:         link,
		Resolution:   resolution(text + " " + tag),
		SizeBytes:    streamSize(s.BehaviorHints.VideoSize, text),
		Seeds:        seedCount(s.Seeds, s.Seeders, text),
	}
	return rec, true
}

// streamLink prefers a direct URL and turns a bare info hash into a magnet URI.
func streamLink(rawURL, infoHash string) string {
	link := strings.TrimSpace(rawURL)
	if link == "" {
		link = strings.TrimSpace(infoHash)
	}
	if link == "" {
		return ""
	}
	if strings.HasPrefix(link, "magnet") || strings.HasPrefix(link, "http") {
		return link
	}
	return "magnet:?xt=urn:btih:" + link
}

func releaseTitle(text, filename, link string) string {
	if t := media.FirstLine(text); t != "" {
		return t
	}
	if t := strings.TrimSpace(filename); t != "" {
		return t
	}
	if t := MagnetName(link); t != "" {
		return t
	}
	return unknownRelease
}

// MagnetName returns the display name (dn) of a magnet URI with dots turned
// into spaces, or "" when there is none.
func MagnetName(link string) string {
	if !strings.HasPrefix(link, "magnet:") {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	dn := u.Query().Get("dn")
	return strings.TrimSpace(strings.ReplaceAll(dn, ".", " "))
}

func resolution(s string) string {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "2160p"), strings.Contains(s, "4k"):
		return "4K"
	case strings.Contains(s, "1080p"):
		return "1080p"
	case strings.Contains(s, "720p"):
		return "720p"
	case strings.Contains(s, "480p"):
		return "480p"
	case strings.Contains(s, "cam"):
		return "CAM"
	default:
		return ""
	}
}

func streamSize(hint int64, text string) *int64 {
	if hint > 0 {
		return &hint
	}
	m := sizePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := humanize.ParseBytes(strings.ToUpper(m[1]))
	if err != nil || n == 0 {
		return nil
	}
	size := int64(n)
	return &size
}

func seedCount(seeds, seeders *int, text string) *int {
	if seeds != nil {
		return seeds
	}
	if seeders != nil {
		return seeders
	}
	m := seedsPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}
