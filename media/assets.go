package media

import (
	"os"
	"path/filepath"

	"github.com/apex/log"
)

// Assets deletes downloaded media files under a configured directory.
// Relative locators are resolved against Dir; absolute ones are used as-is.
type Assets struct {
	Dir string
}

// Remove deletes the asset behind a media locator. A missing file is not an
// error: rejected videos may have been cleaned up already.
func (a *Assets) Remove(mediaLocator string) error {
	path := mediaLocator
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.Dir, path)
	}
	err := os.Remove(path)
	if os.IsNotExist(err) {
		log.Infof("Media asset %s already gone", path)
		return nil
	}
	return err
}
