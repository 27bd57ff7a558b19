// Package static embeds the editor page served by the web server.
package static

import (
	"embed"
	"io/fs"
	"path"
)

//go:embed dist
var distFS embed.FS

// contentTypes maps embedded file extensions to content types.
var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
	".json": "application/json",
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".ico":  "image/x-icon",
}

// Files returns the embedded editor files rooted at the dist directory.
func Files() fs.FS {
	fsys, err := fs.Sub(distFS, "dist")
	if err != nil {
		panic(err)
	}
	return fsys
}

// ReadFile returns an embedded file and its content type. Unknown or
// directory paths resolve to index.html so client-side routes still load the editor.
func ReadFile(name string) ([]byte, string, error) {
	name = path.Clean("/" + name)[1:]
	if name == "" {
		name = "index.html"
	}
	data, err := fs.ReadFile(Files(), name)
	if err != nil {
		name = "index.html"
		if data, err = fs.ReadFile(Files(), name); err != nil {
			return nil, "", err
		}
	}
	contentType, ok := contentTypes[path.Ext(name)]
	if !ok {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}
