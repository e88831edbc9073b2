package bot

import (
	"net/url"
	"strings"
)

// CandidateURL extracts the URL an item points at. For a self post the
// trimmed body must itself be a well-formed absolute URI; for a link
// post the attached URL is used directly regardless of any text.
func CandidateURL(item Item) (string, bool) {
	if !item.IsSelf {
		if item.LinkURL == "" {
			return "", false
		}
		return item.LinkURL, true
	}

	text := strings.TrimSpace(item.SelfText)
	if text == "" || !isAbsoluteURI(text) {
		return "", false
	}

	return text, true
}

func isAbsoluteURI(s string) bool {
	parsed, err := url.Parse(s)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}
