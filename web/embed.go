// Package web embeds the page templates and the installable-app assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed public templates
var files embed.FS

// Public returns the static assets served at the site root.
func Public() fs.FS {
	sub, err := fs.Sub(files, "public")
	if err != nil {
		panic(err)
	}
	return sub
}

// Templates returns the HTML templates.
func Templates() fs.FS {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
