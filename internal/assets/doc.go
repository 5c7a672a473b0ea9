// Package assets provides the page stylesheets used by the site renderer.
//
// Themes are embedded at compile time from styles/{name}.css. A theme can
// also be given as a path to a CSS file on disk (anything containing a path
// separator), which is read as-is.
//
//	styles/
//	├── github-light.css
//	├── github-dark.css
//	└── plain.css
//
// Theme names are validated to prevent path traversal into the embedded
// filesystem.
package assets
