package slug

// Notes:
// - Each pipeline stage is tested on its own, then Base/Slugify end to end
// - Collision tests use a fresh Table per case; scope across files is the
//   caller's choice and is covered in internal/toc

import (
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Pipeline stages
// ---------------------------------------------------------------------------

func TestStripMarker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"level one", "# Title", "Title"},
		{"level three", "### Deep Title", "Deep Title"},
		{"no space after marker", "#Tag", "Tag"},
		{"no marker", "Plain text", "Plain text"},
		{"inner hash kept", "## C# basics", "C# basics"},
		{"marker only", "###", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := StripMarker(tt.in); got != tt.want {
				t.Errorf("StripMarker(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	if got := Sanitize("a~b。c~"); got != "abc" {
		t.Errorf("Sanitize() = %q, want %q", got, "abc")
	}
}

func TestReduceCodeSpans(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no code span", "plain words", "plain words"},
		{"single span punctuation stripped", "use `foo.bar()` now", "use foobar~now"},
		{"span at end", "call `run`", "call run"},
		{"double backticks", "see ``a`b`` here", "see ab~here"},
		{"one padding space trimmed", "x ` y ` z", "x y~z"},
		{"whitespace-only span", "a `  ` b", "a ~b"},
		{"two spans", "`a` and `b`", "a~and b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ReduceCodeSpans(tt.in); got != tt.want {
				t.Errorf("ReduceCodeSpans(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestJoinWhitespace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"a b", "a~b"},
		{"a \t  b", "a~b"},
		{" lead", "~lead"},
		{"ideographic　space", "ideographic~space"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := JoinWhitespace(tt.in); got != tt.want {
			t.Errorf("JoinWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTransliterate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lower-cases", "Hello~World", "hello-world"},
		{"folds accents", "Café~Crème", "cafe-creme"},
		{"drops punctuation", "Hello,~World!", "hello-world"},
		{"keeps hyphen and underscore", "snake_case~-~kebab", "snake_case---kebab"},
		{"keeps CJK letters", "中文~标题", "中文-标题"},
		{"keeps kana voicing marks", "データ", "データ"},
		{"trims placeholders", "~title~", "title"},
		{"drops emoji", "ship~🚀~it", "ship--it"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Transliterate(tt.in); got != tt.want {
				t.Errorf("Transliterate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Base / Slugify
// ---------------------------------------------------------------------------

func TestBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple heading line", "### My Heading", "my-heading"},
		{"heading text without marker", "My Heading", "my-heading"},
		{"hyphen surrounded by spaces", "# a - b", "a---b"},
		{"full stop removed", "## 结束。", "结束"},
		{"tilde removed", "# ~strike~ out", "strike-out"},
		{"code span", "## The `Run()` method", "the-run-method"},
		{"closing hashes", "## Title ##", "title"},
		{"punctuation only", "# ?!", ""},
		{"empty line", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Base(tt.in); got != tt.want {
				t.Errorf("Base(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBase_NeverEmitsForbiddenCharacters(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"# Hello, `world`!",
		"## ``nested ` tick`` and ~tilde~",
		"### Tabs\tand\nnewlines",
		"#### <tag> & \"quotes\" 'single'",
		"# [link](http://example.com/path?q=1#frag)",
		"## emoji 🎉 and symbols ©®™",
		"# \x00\xff invalid bytes",
		"``````",
		"`",
		"# 日本語の見出し：テスト",
	}
	forbidden := "!\"#$%&'()*+,./:;<=>?@[\\]^`{|}~"

	for _, in := range inputs {
		got := Base(in)
		if strings.ContainsAny(got, forbidden) {
			t.Errorf("Base(%q) = %q contains forbidden punctuation", in, got)
		}
		if strings.ContainsAny(got, " \t\n\r") {
			t.Errorf("Base(%q) = %q contains whitespace", in, got)
		}
	}
}

func FuzzBase(f *testing.F) {
	for _, seed := range []string{
		"# Hello, `world`!",
		"## ``nested ` tick`` and ~tilde~",
		"### Tabs\tand\nnewlines",
		"## emoji 🎉 and symbols ©®™",
		"# \x00\xff invalid bytes",
		"# 日本語の見出し：テスト",
		"# a - b",
	} {
		f.Add(seed)
	}
	forbidden := "!\"#$%&'()*+,./:;<=>?@[\\]^`{|}~"

	f.Fuzz(func(t *testing.T, in string) {
		got := Base(in)
		if strings.ContainsAny(got, forbidden) {
			t.Errorf("Base(%q) = %q contains forbidden punctuation", in, got)
		}
		if strings.IndexFunc(got, unicode.IsSpace) >= 0 {
			t.Errorf("Base(%q) = %q contains whitespace", in, got)
		}
		if !utf8.ValidString(got) {
			t.Errorf("Base(%q) = %q is not valid UTF-8", in, got)
		}
	})
}

func TestSlugify_Collisions(t *testing.T) {
	t.Parallel()

	table := NewTable()
	want := []string{"title", "title-1", "title-2", "title-3"}
	for i, w := range want {
		if got := Slugify("# Title", table); got != w {
			t.Errorf("occurrence %d: Slugify() = %q, want %q", i+1, got, w)
		}
	}
}

func TestSlugify_LevelDoesNotChangeBase(t *testing.T) {
	t.Parallel()

	table := NewTable()
	first := Slugify("# Setup", table)
	second := Slugify("## Setup", table)

	if first != "setup" || second != "setup-1" {
		t.Errorf("got %q, %q; want %q, %q", first, second, "setup", "setup-1")
	}
}

func TestSlugify_EmptyHeadings(t *testing.T) {
	t.Parallel()

	table := NewTable()
	if got := Slugify("# !!!", table); got != "" {
		t.Errorf("first empty slug = %q, want empty", got)
	}
	if got := Slugify("# ???", table); got != "-1" {
		t.Errorf("second empty slug = %q, want %q", got, "-1")
	}
}

func TestSlugify_NilTable(t *testing.T) {
	t.Parallel()

	for range 3 {
		if got := Slugify("# Same", nil); got != "same" {
			t.Errorf("Slugify(nil table) = %q, want %q", got, "same")
		}
	}
}
