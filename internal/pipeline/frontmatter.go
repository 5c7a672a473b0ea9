package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/alnah/go-md2site/internal/yamlutil"
)

// ErrFrontMatter indicates a malformed front matter block.
var ErrFrontMatter = errors.New("invalid front matter")

// FrontMatter holds the page metadata read from a leading YAML block.
type FrontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// yamlFormat decodes "---" delimited blocks through yamlutil so front matter
// and the site template share one YAML implementation.
var yamlFormat = frontmatter.NewFormat("---", "---", yamlutil.UnmarshalLenient)

// SplitFrontMatter separates a leading front matter block from the
// Markdown body. Content without front matter is returned unchanged.
func SplitFrontMatter(content string) (FrontMatter, string, error) {
	var meta FrontMatter
	if !strings.HasPrefix(content, "---") {
		return meta, content, nil
	}

	body, err := frontmatter.Parse(strings.NewReader(content), &meta, yamlFormat)
	if err != nil {
		return FrontMatter{}, content, fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}
	return meta, string(body), nil
}
