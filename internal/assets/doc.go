// Package assets loads the template, images, icons, font and color table
// that make up a preview card, and turns binary assets into data URIs.
//
// # Source Architecture
//
// The package implements a layered loading system:
//
//	Source (interface)
//	    │
//	    ├── EmbeddedSource    - go:embed defaults (template, background, icons, colors)
//	    ├── FilesystemSource  - custom directory on disk
//	    └── Resolver          - custom first, embedded fallback on not-found only
//
// The font is never embedded; it must be present under the custom directory.
//
// # Directory Structure
//
// Asset names are slash-separated paths relative to the base directory:
//
//	{basePath}/
//	├── default.html                     # page template
//	├── background.png                   # card background
//	├── linguist-colors.yml              # language -> hex color
//	└── assets/
//	    ├── icons/{name}.svg             # star, repo-forked, people, ...
//	    └── fonts/MonaSansVF-Regular.woff2
//
// # Security
//
// Names are validated before use. FilesystemSource resolves symlinks and
// verifies every path stays within basePath.
package assets
