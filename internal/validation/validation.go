package validation

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Length limits for user-supplied fields.
const (
	MaxURLLength        = 2048
	MaxTitleLength      = 300
	MaxFolderNameLength = 100
	MaxGroupNameLength  = 100
	MaxTagLength        = 50
	MaxTags             = 20
)

// ValidateURL checks that a URL is well formed and uses http or https.
// Rejects javascript:, data:, vbscript: and every other scheme.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}
	if len(urlStr) > MaxURLLength {
		return false, "URL is too long"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// NormalizeURL returns the key two urls must share to count as the same
// link: scheme and host lowercased and one trailing slash removed from the
// path. Path, query and fragment are otherwise kept. Strings that don't parse
// as absolute urls are only trimmed.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.TrimSuffix(s, "/")
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")
	if u.RawPath != "" {
		u.RawPath = strings.TrimSuffix(u.RawPath, "/")
	}
	return u.String()
}

// ValidateTitle checks the optional link title.
func ValidateTitle(title string) (bool, string) {
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return false, "Title is too long"
	}
	return true, ""
}

// ValidateFolderName checks that a folder name is present and not too long.
func ValidateFolderName(name string) (bool, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, "Folder name is required"
	}
	if utf8.RuneCountInString(name) > MaxFolderNameLength {
		return false, "Folder name is too long"
	}
	return true, ""
}

// ValidateGroupName checks that a recipient group name is present and not too long.
func ValidateGroupName(name string) (bool, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, "Group name is required"
	}
	if utf8.RuneCountInString(name) > MaxGroupNameLength {
		return false, "Group name is too long"
	}
	return true, ""
}

// NormalizeTags trims and lowercases tags, drops blanks and repeats, and
// keeps first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = NormalizeTag(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// NormalizeTag trims and lowercases a single tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// ValidateTags checks count and per-tag length of already-normalized tags.
func ValidateTags(tags []string) (bool, string) {
	if len(tags) > MaxTags {
		return false, "Too many tags"
	}
	for _, tag := range tags {
		if utf8.RuneCountInString(tag) > MaxTagLength {
			return false, "Tag is too long: " + tag
		}
	}
	return true, ""
}

// NormalizeCategory trims surrounding whitespace from a category label.
func NormalizeCategory(category string) string {
	return strings.TrimSpace(category)
}
