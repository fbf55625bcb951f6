package checkpointer

import (
	"fmt"
	"path/filepath"
)

// fileEnumerator enumerates filenames
type fileEnumerator struct {
	i         int
	path      string
	extension string
}

// filename returns the name of the next consecutive enumerated file
func (f *fileEnumerator) filename() string {
	f.i++
	return fmt.Sprintf("%v%04d%v", f.path, f.i, f.extension)
}

// FilenameEnumerator returns a function which will return filenames
// in dir with a counter suffix. Each time the returned function is
// called, the counter suffix will be one higher than on the previous
// call, starting at start+1. The extension should include its dot.
func FilenameEnumerator(start int, dir, name, extension string) func() string {
	enum := fileEnumerator{
		i:         start,
		path:      filepath.Join(dir, name),
		extension: extension,
	}

	return enum.filename
}
