package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"

	appLog "weekplan/internal/log"
	"weekplan/internal/model"
)

// snapshotKey holds the whole planner state so a save replaces events and
// preference together.
const snapshotKey = "planner"

// Disk stores the snapshot as a JSON document in a diskv store rooted at a
// data directory.
type Disk struct {
	d        *diskv.Diskv
	basePath string
}

// NewDisk opens (creating if needed) the store under dataDir. Writes go
// through a temp directory and are renamed into place.
func NewDisk(dataDir string) (*Disk, error) {
	if dataDir == "" {
		return nil, errors.New("persist: data dir is empty")
	}
	basePath := filepath.Join(dataDir, "store")
	tmpPath := filepath.Join(dataDir, "tmp")
	for _, dir := range []string{basePath, tmpPath} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("persist: ensure %s: %w", dir, err)
		}
	}

	return &Disk{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			TempDir:      tmpPath,
			FilePerm:     0o600,
			PathPerm:     0o700,
			CacheSizeMax: 1024 * 1024,
		}),
		basePath: basePath,
	}, nil
}

func (p *Disk) Load() model.Snapshot {
	data, err := p.d.Read(snapshotKey)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			appLog.Error("persist: read snapshot failed", err, "path", p.basePath)
		}
		return model.DefaultSnapshot()
	}

	s, err := decode(data)
	if err != nil {
		appLog.Error("persist: snapshot corrupt, starting empty", err, "path", p.basePath)
		return model.DefaultSnapshot()
	}
	appLog.Debug("persist: snapshot loaded", "events", len(s.Events), "use24h", s.Use24h)
	return s
}

func (p *Disk) Save(s model.Snapshot) error {
	data, err := encode(s)
	if err != nil {
		return fmt.Errorf("persist: encode snapshot: %w", err)
	}
	if err := p.d.Write(snapshotKey, data); err != nil {
		return fmt.Errorf("persist: write snapshot: %w", err)
	}
	return nil
}

// Stored reports whether a snapshot has ever been written.
func (p *Disk) Stored() bool {
	return p.d.Has(snapshotKey)
}
