// Package content embeds the default game catalog scripts.
package content

import (
	"embed"
	"io/fs"
)

//go:embed *.lua
var files embed.FS

func FS() fs.FS {
	return files
}
