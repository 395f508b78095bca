package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLToText_RemovesNoise(t *testing.T) {
	html := `<html><head><style>.x{}</style><script>track()</script></head>
<body><header>Careers</header><main><p>We build   payment systems.</p><p>Apply today</p></main>
<div class="cookie-banner">Accept cookies</div></body></html>`

	got, err := HTMLToText(html)
	require.NoError(t, err)

	assert.Equal(t, "We build payment systems.\nApply today", got)
	assert.NotContains(t, got, "track()")
	assert.NotContains(t, got, "Careers")
}

func TestHTMLToText_PrefersPostingContainer(t *testing.T) {
	html := `<body><article>Blog teaser</article><section id="job-description"><p>Requirements</p></section></body>`

	got, err := HTMLToText(html)
	require.NoError(t, err)
	assert.Equal(t, "Requirements", got)
}

func TestHTMLToText_FallsBackToBody(t *testing.T) {
	got, err := HTMLToText(`<body><div>Line one</div><div>Line two</div></body>`)
	require.NoError(t, err)
	assert.Equal(t, "Line one\nLine two", got)
}

func TestHTMLToText_Empty(t *testing.T) {
	got, err := HTMLToText("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
