package searchidx

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsearch/internal/docmodel"
)

func sectionsConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := Configure(Options{
		Lang:            []string{"en"},
		Separator:       `[\s\-]+`,
		MinSearchLength: 3,
		Indexing:        GranularitySections,
	})
	require.NoError(t, err)
	return cfg
}

func TestGenerateIndex_EndToEndScenario_MatchesArtifactContract(t *testing.T) {
	b := NewBuilder(sectionsConfig(t))
	b.AddPage(docmodel.Page{
		Title: "Intro",
		Route: "/intro/",
		Body:  "Welcome.",
		Sections: []docmodel.Section{
			{Level: 2, Title: "Setup", Anchor: "setup", Body: "Install steps."},
		},
	})

	out, err := b.GenerateIndex()
	require.NoError(t, err)

	expected := `{"config":{"lang":["en"],"separator":"[\\s\\-]+","min_search_length":3,"prebuild_index":false},"docs":[{"location":"/intro/","title":"Intro","text":"Welcome."},{"location":"/intro/#setup","title":"Setup","text":"Install steps."}]}`
	require.Equal(t, expected, out)
}

func TestGenerateIndex_CalledTwiceWithoutAddPage_ByteIdentical(t *testing.T) {
	b := NewBuilder(sectionsConfig(t))
	b.AddPage(docmodel.Page{Title: "A", Route: "/a/", Body: "alpha"})

	first, err := b.GenerateIndex()
	require.NoError(t, err)
	second, err := b.GenerateIndex()
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestGenerateIndex_NoDuplicateLocations(t *testing.T) {
	b := NewBuilder(sectionsConfig(t))
	page := docmodel.Page{
		Title: "A",
		Route: "/a/",
		Body:  "alpha",
		Sections: []docmodel.Section{
			{Level: 2, Title: "S", Anchor: "s", Body: "one"},
		},
	}
	b.AddPage(page)
	b.AddPage(page) // same locations again

	out, err := b.GenerateIndex()
	require.NoError(t, err)

	var parsed struct {
		Docs []Record `json:"docs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))

	seen := map[string]bool{}
	for _, d := range parsed.Docs {
		require.False(t, seen[d.Location], "duplicate location %s", d.Location)
		seen[d.Location] = true
	}
	require.Len(t, parsed.Docs, 2)
}

func TestAddPage_LocationCollision_LaterPageWinsAtOriginalPosition(t *testing.T) {
	b := NewBuilder(sectionsConfig(t))
	b.AddPage(docmodel.Page{
		Title: "First",
		Route: "/x",
		Body:  "first body",
		Sections: []docmodel.Section{
			{Level: 2, Title: "Old", Anchor: "y", Body: "old text"},
			{Level: 2, Title: "Keep", Anchor: "z", Body: "kept"},
		},
	})
	b.AddPage(docmodel.Page{
		Title: "Second",
		Route: "/x",
		Body:  "second body",
		Sections: []docmodel.Section{
			{Level: 2, Title: "New", Anchor: "y", Body: "new text"},
		},
	})

	out, err := b.GenerateIndex()
	require.NoError(t, err)

	var parsed struct {
		Docs []Record `json:"docs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))

	require.Len(t, parsed.Docs, 3)
	// Position is where the location first appeared; values are from the
	// later-processed page.
	require.Equal(t, Record{Location: "/x", Title: "Second", Text: "second body"}, parsed.Docs[0])
	require.Equal(t, Record{Location: "/x#y", Title: "New", Text: "new text"}, parsed.Docs[1])
	require.Equal(t, Record{Location: "/x#z", Title: "Keep", Text: "kept"}, parsed.Docs[2])
}

func TestGenerateIndex_EmptyBuild_EmptyDocsArray(t *testing.T) {
	b := NewBuilder(sectionsConfig(t))

	out, err := b.GenerateIndex()
	require.NoError(t, err)
	require.Contains(t, out, `"docs":[]`)
}

func TestBuilder_Len_CountsUniqueLocations(t *testing.T) {
	b := NewBuilder(sectionsConfig(t))
	b.AddPage(docmodel.Page{Title: "A", Route: "/a/", Body: "alpha"})
	b.AddPage(docmodel.Page{Title: "A2", Route: "/a/", Body: "alpha2"})
	b.AddPage(docmodel.Page{Title: "B", Route: "/b/", Body: "beta"})

	require.Equal(t, 2, b.Len())
}
