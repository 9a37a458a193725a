package spec

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGrammar(t *testing.T) {
	src := `
token num = /[0-9]+/;
token add = "+";
entry expr;
prod expr = term (add term)*;
prod term = num;
`
	root, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	require.Len(t, root.Tokens, 2)
	num := root.Tokens[0]
	require.Equal(t, "num", num.Name)
	require.Equal(t, "[0-9]+", num.Pattern)
	require.True(t, num.IsRegex)
	add := root.Tokens[1]
	require.Equal(t, "add", add.Name)
	require.Equal(t, "+", add.Pattern)
	require.False(t, add.IsRegex)

	require.Len(t, root.Entries, 1)
	require.Equal(t, "expr", root.Entries[0].Name)

	require.Len(t, root.Productions, 2)
	expr := root.Productions[0]
	require.Equal(t, "expr", expr.LHS)
	require.Len(t, expr.Alternatives, 1)
	elems := expr.Alternatives[0].Elements
	require.Len(t, elems, 2)
	require.Equal(t, "term", elems[0].ID)
	require.Nil(t, elems[0].Group)

	group := elems[1].Group
	require.NotNil(t, group)
	require.Equal(t, RepetitionZeroOrMore, group.Rep)
	require.Len(t, group.Alternatives, 1)
	groupElems := group.Alternatives[0].Elements
	require.Len(t, groupElems, 2)
	require.Equal(t, "add", groupElems[0].ID)
	require.Equal(t, "term", groupElems[1].ID)

	term := root.Productions[1]
	require.Equal(t, "term", term.LHS)
	require.Len(t, term.Alternatives, 1)
}

func TestParseGroups(t *testing.T) {
	src := `
prod s = (a)* (b)+ (c)? (d | e) f;
`
	root, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	elems := root.Productions[0].Alternatives[0].Elements
	require.Len(t, elems, 5)
	require.Equal(t, RepetitionZeroOrMore, elems[0].Group.Rep)
	require.Equal(t, RepetitionOneOrMore, elems[1].Group.Rep)
	require.Equal(t, RepetitionOption, elems[2].Group.Rep)
	require.Equal(t, RepetitionNone, elems[3].Group.Rep)
	require.Len(t, elems[3].Group.Alternatives, 2)
	require.Equal(t, "f", elems[4].ID)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		cause   error
	}{
		{caption: "a token without a name", src: `token = "a";`, cause: synErrNoTokenName},
		{caption: "a token without the equal sign", src: `token a "a";`, cause: synErrNoEq},
		{caption: "a token without a pattern", src: `token a = ;`, cause: synErrNoTokenPattern},
		{caption: "a token without the semicolon", src: `token a = "a"`, cause: synErrNoSemicolon},
		{caption: "an entry without a name", src: `entry;`, cause: synErrNoEntryName},
		{caption: "an entry without the semicolon", src: `entry s`, cause: synErrNoSemicolon},
		{caption: "a production without a name", src: `prod = a;`, cause: synErrNoProdName},
		{caption: "a production without an alternative", src: `prod s = ;`, cause: synErrEmptyAlternative},
		{caption: "an empty branch", src: `prod s = a | ;`, cause: synErrEmptyAlternative},
		{caption: "an unclosed group", src: `prod s = (a;`, cause: synErrGroupUnclosed},
		{caption: "an empty group", src: `prod s = ();`, cause: synErrGroupEmpty},
		{caption: "an unexpected character", src: `prod s = a @;`, cause: synErrInvalidToken},
		{caption: "an empty grammar", src: ``, cause: synErrEmptyGrammar},
		{caption: "a grammar with only comments", src: "// nothing\n", cause: synErrEmptyGrammar},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.cause), "unexpected cause; want: %v, got: %v", tt.cause, err)
		})
	}
}
