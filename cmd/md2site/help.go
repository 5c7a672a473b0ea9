package main

import (
	"fmt"
	"io"
	"strings"

	md2site "github.com/alnah/go-md2site"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  md2site <src-dir> <dest-dir> [flags]                 Write the outline only")
	fmt.Fprintln(w, "  md2site <src-dir> <dest-dir> <template.yaml> [flags] Export the full site")
	fmt.Fprintln(w, "  md2site <file.md> <dest-dir> [flags]                 Export one page")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --theme <s>           Theme name or CSS file path")
	fmt.Fprintln(w, "                            Themes: "+strings.Join(md2site.ThemeNames(), ", "))
	fmt.Fprintln(w, "      --code-theme <s>      Code highlighting theme (default: github)")
	fmt.Fprintln(w, "      --offline             Inline CSS into every page")
	fmt.Fprintln(w, "      --unsafe              Keep raw HTML, including <script>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Outline:")
	fmt.Fprintln(w, "      --anchor-scope <s>    Collision scope: run (default), file")
	fmt.Fprintln(w, "      --indent <n>          Spaces per level (1-8, default: 2)")
	fmt.Fprintln(w, "      --link-ext <s>        Suffix for outline links, e.g. .html")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  -w, --watch               Rebuild when the source changes")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-file progress")
	fmt.Fprintln(w, "      --version             Show version information")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2SITE_THEME, MD2SITE_CODE_THEME, MD2SITE_OFFLINE, MD2SITE_ANCHOR_SCOPE,")
	fmt.Fprintln(w, "  MD2SITE_LINK_EXT override the template file; flags override both.")
}
