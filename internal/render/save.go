package render

import (
	"path/filepath"

	"yt2blog/internal/model"
	"yt2blog/internal/util"
)

// FileSaver writes rendered blogs to disk. Path, when set, is used as-is;
// otherwise the file goes into Dir under OutputName.
type FileSaver struct {
	Dir    string
	Path   string
	Format model.OutputFormat
}

// Save renders rec.Blog and writes it, returning the file path.
func (s FileSaver) Save(rec model.Record) (string, error) {
	data, err := Render(rec.Blog, s.Format)
	if err != nil {
		return "", err
	}
	path := s.Path
	if path == "" {
		dir := s.Dir
		if dir == "" {
			dir = "."
		}
		path = filepath.Join(dir, OutputName(rec.URL, s.Format))
	}
	if err := util.WriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}
