package intent

import (
	"os"
	"path/filepath"
	"strings"
)

// RelatedFiles walks the working directory breadth-first and collects
// up to limit files whose lowercased basename contains the stem of
// filename (extension and underscores removed). The file itself and
// hidden directories are skipped.
func RelatedFiles(workdir, filename string, limit int) []string {
	stem := fileStem(filename)
	if stem == "" {
		return nil
	}

	var related []string
	queue := []string{workdir}

	for len(queue) > 0 && len(related) < limit {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, e := range entries {
			if len(related) >= limit {
				break
			}
			name := e.Name()
			if e.IsDir() {
				if !strings.HasPrefix(name, ".") {
					queue = append(queue, filepath.Join(dir, name))
				}
				continue
			}
			if name == filename {
				continue
			}
			if strings.Contains(strings.ToLower(name), stem) {
				related = append(related, filepath.Join(dir, name))
			}
		}
	}

	return related
}

func fileStem(filename string) string {
	stem := strings.ToLower(filename)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	return strings.ReplaceAll(stem, "_", "")
}
