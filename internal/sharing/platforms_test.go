package sharing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saveit/internal/config"
)

func TestPlatformsDefaults(t *testing.T) {
	p := NewPlatforms(nil)
	assert.Equal(t, []string{"facebook", "linkedin", "telegram", "twitter"}, p.Names())

	got, err := p.IntentURL("twitter", "https://s.example.com/shared/collection?links=a,b", "Check out these links")
	require.NoError(t, err)
	assert.Equal(t,
		"https://twitter.com/intent/tweet?text=Check+out+these+links&url=https%3A%2F%2Fs.example.com%2Fshared%2Fcollection%3Flinks%3Da%2Cb",
		got)

	got, err = p.IntentURL("Facebook", "https://x.com", "")
	require.NoError(t, err)
	assert.Equal(t, "https://www.facebook.com/sharer/sharer.php?u=https%3A%2F%2Fx.com", got)

	_, err = p.IntentURL("myspace", "https://x.com", "")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestPlatformsYAMLOverrides(t *testing.T) {
	yamlCfg := &config.YAMLConfig{Share: config.ShareConfig{
		Disabled: []string{"facebook"},
		Platforms: []config.PlatformConfig{
			{Name: "Mastodon", Template: "https://mastodon.social/share?text={text}%20{url}"},
			{Name: "twitter", Template: "https://x.com/intent/post?url={url}"},
			{Name: "broken"},
		},
	}}

	p := NewPlatforms(yamlCfg)
	assert.Equal(t, []string{"linkedin", "mastodon", "telegram", "twitter"}, p.Names())

	got, err := p.IntentURL("twitter", "https://x.com", "hi")
	require.NoError(t, err)
	assert.Equal(t, "https://x.com/intent/post?url=https%3A%2F%2Fx.com", got)

	all := p.All("https://x.com", "hi")
	assert.Len(t, all, 4)
	assert.Equal(t, "https://mastodon.social/share?text=hi%20https%3A%2F%2Fx.com", all["mastodon"])
}
