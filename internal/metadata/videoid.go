// Package metadata extracts external video references and keeps stored titles
// in sync with the hosting site's oEmbed endpoint.
package metadata

import "regexp"

var (
	watchPattern = regexp.MustCompile(`(?i)(?:v=|/)([0-9A-Za-z_-]{11})`)
	shortPattern = regexp.MustCompile(`(?i)youtu\.be/([0-9A-Za-z_-]{11})`)
	embedPattern = regexp.MustCompile(`(?i)embed/([0-9A-Za-z_-]{11})`)
)

// ExtractVideoID pulls the 11-character video id out of a pasted YouTube URL.
// Watch, short, and embed forms are accepted; a bare id that happens to be 11
// characters long is not. Returns "" when nothing matches.
func ExtractVideoID(url string) string {
	for _, re := range []*regexp.Regexp{watchPattern, shortPattern, embedPattern} {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}
