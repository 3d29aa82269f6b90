package sound

import (
	"os"
	"path/filepath"
	"strings"
)

// Compiled-in skin locations, overridable at build time with -ldflags -X.
var (
	skinSearchDir = "/usr/share/circles/skins"
	defaultSkin   = "default"
)

// ResolveSkin picks the skin directory. A value of OSHU_SKIN containing a
// slash is a path and must be readable; a bare name is looked up in the
// search directory; anything else falls back to the default skin.
func ResolveSkin() string {
	v := os.Getenv("OSHU_SKIN")
	if v == "" {
		return filepath.Join(skinSearchDir, defaultSkin)
	}
	if strings.Contains(v, "/") {
		if f, err := os.Open(v); err == nil {
			f.Close()
			return v
		}
		return filepath.Join(skinSearchDir, defaultSkin)
	}
	return filepath.Join(skinSearchDir, v)
}
