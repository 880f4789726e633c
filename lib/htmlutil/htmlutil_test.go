package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestGetText(t *testing.T) {
	node, err := html.Parse(strings.NewReader(`<td><span>Jan 15,</span> <b>2024</b></td>`))
	require.NoError(t, err)
	require.Equal(t, "Jan 15, 2024", CleanText(GetText(node)))
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "$0.25", CleanText("  $0.25​\n"))
	require.Equal(t, "Jan 15, 2024", CleanText("Jan   15,   2024"))
	require.Equal(t, "", CleanText("​­"))
}
