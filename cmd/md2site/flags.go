package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds output verbosity flags.
type commonFlags struct {
	quiet   bool
	verbose bool
}

// renderFlags holds page rendering flags.
type renderFlags struct {
	theme     string
	codeTheme string
	offline   bool
	unsafe    bool
}

// indexFlags holds outline flags.
type indexFlags struct {
	anchorScope string
	indent      int
	linkExt     string
}

// cliFlags holds every md2site flag.
type cliFlags struct {
	common  commonFlags
	render  renderFlags
	index   indexFlags
	watch   bool
	version bool
	help    bool

	// set reports whether a flag was given on the command line, so config
	// values are only overridden by explicit flags.
	set func(name string) bool
}

// addCommonFlags adds verbosity flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-file progress")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.theme, "theme", "", "theme name or CSS file path")
	fs.StringVar(&f.codeTheme, "code-theme", "", "code highlighting theme")
	fs.BoolVar(&f.offline, "offline", false, "inline CSS into every page")
	fs.BoolVar(&f.unsafe, "unsafe", false, "keep raw HTML, including scripts")
}

// addIndexFlags adds outline flags to a FlagSet.
func addIndexFlags(fs *flag.FlagSet, f *indexFlags) {
	fs.StringVar(&f.anchorScope, "anchor-scope", "", "anchor collision scope: run, file")
	fs.IntVar(&f.indent, "indent", 0, "spaces per outline level (1-8, default: 2)")
	fs.StringVar(&f.linkExt, "link-ext", "", "suffix for outline links, e.g. .html")
}

// parseFlags parses the command line (without the program name) and returns
// the positional arguments.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("md2site", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &cliFlags{}

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addIndexFlags(fs, &f.index)
	fs.BoolVarP(&f.watch, "watch", "w", false, "rebuild when the source changes")
	fs.BoolVar(&f.version, "version", false, "show version information")
	fs.BoolVarP(&f.help, "help", "h", false, "show help")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.set = func(name string) bool { return fs.Changed(name) }

	return f, fs.Args(), nil
}
