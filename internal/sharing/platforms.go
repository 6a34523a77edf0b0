package sharing

import (
	"errors"
	"net/url"
	"sort"
	"strings"

	"saveit/internal/config"
)

// ErrUnknownPlatform is returned for a platform that isn't configured.
var ErrUnknownPlatform = errors.New("unknown share platform")

// Built-in share intents. {url} and {text} are replaced with query-escaped
// values.
var defaultPlatforms = map[string]string{
	"twitter":  "https://twitter.com/intent/tweet?text={text}&url={url}",
	"telegram": "https://t.me/share/url?url={url}&text={text}",
	"linkedin": "https://www.linkedin.com/sharing/share-offsite/?url={url}",
	"facebook": "https://www.facebook.com/sharer/sharer.php?u={url}",
}

// Platforms holds the social share intents available to users.
type Platforms struct {
	templates map[string]string
}

// NewPlatforms returns the built-in platforms with overrides and additions
// from yamlCfg applied. yamlCfg may be nil.
func NewPlatforms(yamlCfg *config.YAMLConfig) *Platforms {
	p := &Platforms{templates: make(map[string]string, len(defaultPlatforms))}
	for name, tmpl := range defaultPlatforms {
		if !yamlCfg.IsPlatformDisabled(name) {
			p.templates[name] = tmpl
		}
	}
	for _, pc := range yamlCfg.SharePlatforms() {
		name := strings.ToLower(strings.TrimSpace(pc.Name))
		if name == "" || pc.Template == "" {
			continue
		}
		p.templates[name] = pc.Template
	}
	return p
}

// Names returns the configured platform names, sorted.
func (p *Platforms) Names() []string {
	names := make([]string, 0, len(p.templates))
	for name := range p.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IntentURL returns the share intent for one platform.
func (p *Platforms) IntentURL(name, shareURL, text string) (string, error) {
	tmpl, ok := p.templates[strings.ToLower(name)]
	if !ok {
		return "", ErrUnknownPlatform
	}
	r := strings.NewReplacer(
		"{url}", url.QueryEscape(shareURL),
		"{text}", url.QueryEscape(text),
	)
	return r.Replace(tmpl), nil
}

// All returns the intent url of every platform keyed by name.
func (p *Platforms) All(shareURL, text string) map[string]string {
	out := make(map[string]string, len(p.templates))
	for _, name := range p.Names() {
		out[name], _ = p.IntentURL(name, shareURL, text)
	}
	return out
}
