package config

// SiteProfile holds site-specific configuration for a single
// documentation host. This allows customizing extraction and crawl
// behavior per site without command-line flags.
type SiteProfile struct {
	// BaseURL overrides the page topic slugs resolve against.
	BaseURL string `yaml:"baseURL,omitempty"`

	// AllowedPrefix overrides the crawl scope for this site.
	AllowedPrefix string `yaml:"allowedPrefix,omitempty"`

	// TitleTrimSuffix is removed from the end of this site's titles.
	TitleTrimSuffix string `yaml:"titleTrimSuffix,omitempty"`

	// ContentSelectors overrides the selector chain used to locate the
	// content root, tried in order.
	ContentSelectors []string `yaml:"contentSelectors,omitempty"`

	// CodeLanguages extends the language tokens recognized on bare
	// <code> classes for this site.
	CodeLanguages []string `yaml:"codeLanguages,omitempty"`

	// Delay overrides the per-host request interval.
	// If zero, the global Delay is used.
	Delay Duration `yaml:"delay,omitempty"`

	// Depth overrides the global crawl depth for this site.
	// If zero, the global Depth is used.
	Depth int `yaml:"depth,omitempty"`
}

// File represents the structure of the .docgrab configuration file.
type File struct {
	// Sites maps hostnames to their site-specific profiles.
	// Keys are bare hosts (e.g. "dev.epicgames.com").
	Sites map[string]SiteProfile `yaml:"sites,omitempty"`

	// Defaults contains the profile applied to all sites unless
	// overridden in the site-specific profile.
	Defaults SiteProfile `yaml:"defaults,omitempty"`

	// Topics adds extra topic shortcuts on top of the built-in table.
	// Keys are shortcuts, values the documentation slugs they resolve to.
	Topics map[string]string `yaml:"topics,omitempty"`
}

// ProfileFor returns the profile for a specific host.
// It merges the site-specific profile with defaults, field by field.
func (cf *File) ProfileFor(host string) SiteProfile {
	// Start with defaults
	result := cf.Defaults

	// Override with the site-specific profile if present
	if profile, ok := cf.Sites[host]; ok {
		if profile.BaseURL != "" {
			result.BaseURL = profile.BaseURL
		}
		if profile.AllowedPrefix != "" {
			result.AllowedPrefix = profile.AllowedPrefix
		}
		if profile.TitleTrimSuffix != "" {
			result.TitleTrimSuffix = profile.TitleTrimSuffix
		}
		if len(profile.ContentSelectors) > 0 {
			result.ContentSelectors = profile.ContentSelectors
		}
		if len(profile.CodeLanguages) > 0 {
			result.CodeLanguages = profile.CodeLanguages
		}
		if !profile.Delay.IsZero() {
			result.Delay = profile.Delay
		}
		if profile.Depth != 0 {
			result.Depth = profile.Depth
		}
	}

	return result
}
