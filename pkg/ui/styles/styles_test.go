package styles_test

import (
	"testing"

	"github.com/arthur-debert/windeploy/pkg/ui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedStylesLoaded(t *testing.T) {
	assert.True(t, styles.Get("Success").GetBold())
	assert.True(t, styles.Get("Header").GetBold())
	assert.Equal(t, 16, styles.Get("State").GetWidth())
}

func TestGet_Unknown(t *testing.T) {
	style := styles.Get("NoSuchStyle")
	assert.False(t, style.GetBold())
	assert.Equal(t, "plain", style.Render("plain"))
}

func TestLoadStylesFromData(t *testing.T) {
	data := []byte(`
colors:
  red: {light: "#ff0000", dark: "#aa0000"}
styles:
  Alarm: {bold: true, foreground: red, paddingLeft: 2}
`)
	require.NoError(t, styles.LoadStylesFromData(data))
	t.Cleanup(func() {
		// later tests expect the embedded set
		require.NoError(t, styles.LoadStylesFromData(mustEmbedded(t)))
	})

	alarm := styles.Get("Alarm")
	assert.True(t, alarm.GetBold())
	assert.Equal(t, 2, alarm.GetPaddingLeft())
}

func TestLoadStylesFromData_Invalid(t *testing.T) {
	assert.Error(t, styles.LoadStylesFromData([]byte("styles: [")))
}

func mustEmbedded(t *testing.T) []byte {
	t.Helper()
	return styles.Embedded()
}
