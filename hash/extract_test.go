package hash

import (
	"context"
	"strings"
	"testing"

	"github.com/winpax/gscoop/version"
)

func TestExtractXMLSubstitutesArbitraryToken(t *testing.T) {
	want := strings.Repeat("a", 64)
	body := `<assembly><compatibility><application>
		<supportedOS Id="` + strings.Repeat("0", 64) + `" />
		<supportedOS Id="` + want + `" />
		<supportedOS Id="` + strings.Repeat("2", 64) + `" />
	</application></compatibility></assembly>`

	e := Extraction{Mode: ModeXML, Find: "/assembly/compatibility/application/$finalKey[last()-1]/@Id"}
	subs := version.SubstitutionMap{"$finalKey": "supportedOS"}

	got, err := Extract(context.Background(), e, []byte(body), subs)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.String() != want {
		t.Errorf("got %q, want %q", got.String(), want)
	}
}

func TestEscapeForModeOnlyEscapesJSONPathWithRegexFilter(t *testing.T) {
	cases := []struct {
		e    Extraction
		want bool
	}{
		{Extraction{Mode: ModeJSON, Find: `$.files[?(@.name=~"a.zip")].sha256`}, true},
		{Extraction{Mode: ModeJSON, Find: `$.files[0].sha256`}, false},
		{Extraction{Mode: ModeXML, Find: `//sha256[.=~"x"]`}, false},
		{Extraction{Mode: ModeText, Find: `$sha256`}, true},
	}
	for _, tc := range cases {
		if got := escapeForMode(tc.e); got != tc.want {
			t.Errorf("escapeForMode(%+v) = %v, want %v", tc.e, got, tc.want)
		}
	}
}

func TestExtractJSONSubstitutesFindBeforeQuerying(t *testing.T) {
	const digest = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	body := []byte(`{"releases":{"1.2":{"sha256":"` + digest + `"}}}`)

	e := Extraction{Mode: ModeJSON, Find: `$.releases['$version'].sha256`}
	subs := version.SubstitutionMap{"$version": "1.2"}

	got, err := Extract(context.Background(), e, body, subs)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.String() != digest {
		t.Errorf("got %q, want %q", got.String(), digest)
	}
}

func TestExtractRejectsDownloadMode(t *testing.T) {
	e := Extraction{Mode: ModeDownload}
	if _, err := Extract(context.Background(), e, []byte("x"), nil); err == nil {
		t.Fatal("expected ModeDownload to be rejected by Extract")
	}
}
