package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAttributes(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
		want  string
	}{
		{"single", map[string]string{"a": "1"}, "> a=`1`"},
		{"sorted keys", map[string]string{"b": "2", "a": "1"}, "> a=`1`,b=`2`"},
		{"one backtick", map[string]string{"a": "x`y"}, "> a=``x`y``"},
		{"longest run wins", map[string]string{"a": "`x``y"}, "> a=````x``y```"},
		{"empty value", map[string]string{"a": ""}, "> a=``"},
		{"empty map", map[string]string{}, "> "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeAttributes(tt.attrs))
		})
	}
}

func TestAttributeCodecInverse(t *testing.T) {
	values := []string{
		"",
		"plain",
		"x`y",
		"`",
		"``",
		"```",
		"`start",
		"end`",
		"``both``",
		"a``b`c```d",
		"a,b=c",
		"k=`v`,x=`y`",
		"  padded  ",
		"tab\there",
		"unicode ✓ ключ",
	}
	for _, v := range values {
		t.Run(v, func(t *testing.T) {
			in := map[string]string{"k": v}
			got, ok := DecodeAttributes(EncodeAttributes(in))
			require.True(t, ok)
			assert.Equal(t, in, got)
		})
	}
}

func TestAttributeCodecInverseManyKeys(t *testing.T) {
	in := map[string]string{
		"__version__": "1.1",
		"fillColor":   "#ff0000",
		"weird":       "a`b,c=`d`",
		"ticks":       "````",
		"empty":       "",
		"lead":        "`x",
		"trail":       "y``",
	}
	got, ok := DecodeAttributes(EncodeAttributes(in))
	require.True(t, ok)
	assert.Equal(t, in, got)

	in = map[string]string{"a": "`x", "b": "y``"}
	line := EncodeAttributes(in)
	require.Equal(t, "> a=```x``,b=```y`````", line)
	got, ok = DecodeAttributes(line)
	require.True(t, ok)
	assert.Equal(t, in, got)
}

// backtickEdged holds values whose fences are easy to misread when several
// pairs share a line.
var backtickEdged = []string{
	"",
	"`",
	"``",
	"```",
	"`x",
	"``x",
	"y``",
	"y`",
	"`a`",
	"``b``",
	"`,k=`v`",
	"x`,",
	"=`",
	",",
	"plain",
}

func TestAttributeCodecInverseBacktickPairs(t *testing.T) {
	for _, a := range backtickEdged {
		for _, b := range backtickEdged {
			in := map[string]string{"a": a, "b": b}
			got, ok := DecodeAttributes(EncodeAttributes(in))
			require.True(t, ok)
			assert.Equal(t, in, got, "line %s", EncodeAttributes(in))
		}
	}
}

func TestAttributeCodecInverseBacktickTriples(t *testing.T) {
	n := len(backtickEdged)
	for i := range backtickEdged {
		for j := range backtickEdged {
			in := map[string]string{
				"a": backtickEdged[i],
				"b": backtickEdged[j],
				"c": backtickEdged[(i+j)%n],
			}
			got, ok := DecodeAttributes(EncodeAttributes(in))
			require.True(t, ok)
			assert.Equal(t, in, got, "line %s", EncodeAttributes(in))
		}
	}
}

func TestDecodeAttributes(t *testing.T) {
	t.Run("leading blanks", func(t *testing.T) {
		got, ok := DecodeAttributes("   > a=`1`")
		require.True(t, ok)
		assert.Equal(t, map[string]string{"a": "1"}, got)
	})

	t.Run("spaces around equals", func(t *testing.T) {
		got, ok := DecodeAttributes("> a = `1`, b=  `2`")
		require.True(t, ok)
		assert.Equal(t, map[string]string{"a": "1", "b": "2"}, got)
	})

	t.Run("garbage is skipped", func(t *testing.T) {
		got, ok := DecodeAttributes("> junk a=`1`,b=`2` trailing")
		require.True(t, ok)
		assert.Equal(t, map[string]string{"a": "1", "b": "2"}, got)
	})

	t.Run("hand written fence ends at the pair", func(t *testing.T) {
		got, ok := DecodeAttributes("> a = ```x``, b=```y`````")
		require.True(t, ok)
		assert.Equal(t, map[string]string{"a": "`x", "b": "y``"}, got)
	})

	t.Run("not an attribute line", func(t *testing.T) {
		for _, line := range []string{"a=`1`", ">a=`1`", ">", "> ", "# topic"} {
			_, ok := DecodeAttributes(line)
			assert.False(t, ok, line)
			assert.False(t, IsAttributeLine(line), line)
		}
	})
}

func TestValidAttributeKey(t *testing.T) {
	assert.True(t, ValidAttributeKey("fillColor"))
	assert.True(t, ValidAttributeKey("extras.note.encrypted"))
	for _, key := range []string{"", "a b", "a=b", "a,b", "a`b", "a\tb"} {
		assert.False(t, ValidAttributeKey(key), key)
	}
}
