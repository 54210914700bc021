package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdstream/pkg/config"
	"github.com/yaklabco/mdstream/pkg/md"
	"github.com/yaklabco/mdstream/pkg/mdhtml"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()

	assert.Equal(t, config.FlavorCommonMark, cfg.Flavor)
	assert.Empty(t, cfg.Extensions)
	assert.True(t, cfg.SkipBOM)
	assert.False(t, cfg.XHTML)
	assert.False(t, cfg.VerbatimEntities)
	assert.False(t, cfg.DetectLanguage)
}

func TestFlavorIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, config.FlavorCommonMark.IsValid())
	assert.True(t, config.FlavorGFM.IsValid())
	assert.False(t, config.Flavor("markdown-extra").IsValid())
	assert.False(t, config.Flavor("").IsValid())
}

func TestDialectFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		flavor     config.Flavor
		extensions []string
		want       md.Flags
		wantErr    bool
	}{
		{
			name:   "commonmark baseline",
			flavor: config.FlavorCommonMark,
			want:   md.DialectCommonMark,
		},
		{
			name:   "empty flavor defaults to commonmark",
			flavor: "",
			want:   md.DialectCommonMark,
		},
		{
			name:   "gfm baseline",
			flavor: config.FlavorGFM,
			want:   md.DialectGitHub,
		},
		{
			name:       "commonmark with tables",
			flavor:     config.FlavorCommonMark,
			extensions: []string{config.ExtTables},
			want:       md.Tables,
		},
		{
			name:       "autolinks expands to all three kinds",
			flavor:     config.FlavorCommonMark,
			extensions: []string{config.ExtAutolinks},
			want: md.PermissiveURLAutolinks |
				md.PermissiveWWWAutolinks |
				md.PermissiveEmailAutolinks,
		},
		{
			name:       "multiple extensions accumulate",
			flavor:     config.FlavorCommonMark,
			extensions: []string{config.ExtMath, config.ExtWikiLinks},
			want:       md.LaTeXMathSpans | md.WikiLinks,
		},
		{
			name:    "unknown flavor",
			flavor:  "pandoc",
			wantErr: true,
		},
		{
			name:       "unknown extension",
			flavor:     config.FlavorGFM,
			extensions: []string{"footnotes"},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Config{Flavor: tt.flavor, Extensions: tt.extensions}
			got, err := cfg.DialectFlags()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKnownExtensionsResolve(t *testing.T) {
	t.Parallel()

	for _, ext := range config.KnownExtensions() {
		cfg := &config.Config{Flavor: config.FlavorCommonMark, Extensions: []string{ext}}
		flags, err := cfg.DialectFlags()
		require.NoError(t, err, "extension %q", ext)
		assert.NotZero(t, flags, "extension %q maps to no flags", ext)
	}
}

func TestRenderFlags(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	assert.Equal(t, mdhtml.Flags(0), cfg.RenderFlags())

	cfg = &config.Config{XHTML: true, VerbatimEntities: true, SkipBOM: true, Debug: true}
	flags := cfg.RenderFlags()
	assert.True(t, flags.Has(mdhtml.XHTML))
	assert.True(t, flags.Has(mdhtml.VerbatimEntities))
	assert.True(t, flags.Has(mdhtml.SkipUTF8BOM))
	assert.True(t, flags.Has(mdhtml.Debug))
}

func TestClone(t *testing.T) {
	t.Parallel()

	orig := config.NewConfig()
	orig.Flavor = config.FlavorGFM
	orig.Extensions = []string{config.ExtMath}
	orig.Output = "out.html"
	orig.Debug = true

	clone := orig.Clone()
	require.NotSame(t, orig, clone)
	assert.Equal(t, orig, clone)

	clone.Extensions[0] = config.ExtUnderline
	assert.Equal(t, config.ExtMath, orig.Extensions[0], "clone shares extension slice")
}

func TestCloneNil(t *testing.T) {
	t.Parallel()

	var cfg *config.Config
	assert.Nil(t, cfg.Clone())
}
