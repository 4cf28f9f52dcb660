// Package assets provides the stylesheets and page templates of the viewer.
//
// Assets are looked up in layers. A Resolver built with a custom directory
// reads from it first and falls back to the set compiled into the binary, so
// a user can override one template and keep the rest:
//
//	{customDir}/
//	├── styles/
//	│   └── {name}.css      # page stylesheet (built-in: github)
//	└── templates/
//	    ├── document.html   # wraps a rendered document
//	    ├── landing.html    # shown before a document is loaded
//	    └── error.html      # shown when loading fails
//
// Names are plain file stems. Files in the custom directory are opened
// through os.OpenInRoot, which rejects paths and symlinks leading outside it.
package assets
