// Package assets provides CSS styles for standalone content documents.
// Styles can be loaded from embedded files or a custom filesystem path.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (default styles)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// # Directory Structure
//
//	{basePath}/
//	└── styles/
//	    └── {name}.css
//
// Style names are letters, digits, '-' and '_' only. FilesystemLoader reads
// through an os.Root opened on {basePath}/styles, so a symlink pointing
// outside the directory fails with ErrPathTraversal.
//
// Every loader also reports StyleNames, which the CLI prints for
// --list-styles.
package assets
