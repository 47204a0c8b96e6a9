// Package files persists catalog snapshots to disk and loads them back.
//
// A snapshot is written as two JSON files: the full participant list and a
// sidecar metadata file consumers can poll without fetching the catalog. Each
// file is written to a temporary file in the target directory and renamed
// into place, so concurrent readers never observe a half-written file and a
// failed write never corrupts the previously published pair.
package files

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/openispb/ispbmap/pkg/catalogs"
	"github.com/openispb/ispbmap/pkg/constants"
	"github.com/openispb/ispbmap/pkg/errors"
)

// Store reads and writes catalog snapshots under one directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created on the
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.dir
}

// ParticipantsPath returns the path of the published participant list.
func (s *Store) ParticipantsPath() string {
	return filepath.Join(s.dir, constants.ParticipantsFile)
}

// MetadataPath returns the path of the published metadata record.
func (s *Store) MetadataPath() string {
	return filepath.Join(s.dir, constants.MetadataFile)
}

// Write persists a snapshot as an atomic replace. The participant list lands
// first and the metadata last, so the metadata never announces a generation
// whose data file is not yet in place.
func (s *Store) Write(snapshot *catalogs.Snapshot) error {
	if err := os.MkdirAll(s.dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", s.dir, err)
	}

	participants, err := json.MarshalIndent(snapshot.List(), "", "  ")
	if err != nil {
		return errors.WrapParse("json", constants.ParticipantsFile, err)
	}
	if err := s.replace(s.ParticipantsPath(), participants); err != nil {
		return err
	}

	meta, err := json.MarshalIndent(snapshot.Metadata(), "", "  ")
	if err != nil {
		return errors.WrapParse("json", constants.MetadataFile, err)
	}
	return s.replace(s.MetadataPath(), meta)
}

// Load reads the published snapshot pair back from disk.
func (s *Store) Load() (*catalogs.Snapshot, error) {
	data, err := os.ReadFile(s.ParticipantsPath())
	if err != nil {
		return nil, errors.WrapIO("read", s.ParticipantsPath(), err)
	}

	var participants []catalogs.Participant
	if err := json.Unmarshal(data, &participants); err != nil {
		return nil, errors.WrapParse("json", s.ParticipantsPath(), err)
	}

	var meta catalogs.Metadata
	metaData, err := os.ReadFile(s.MetadataPath())
	if err == nil {
		if err := json.Unmarshal(metaData, &meta); err != nil {
			return nil, errors.WrapParse("json", s.MetadataPath(), err)
		}
	} else if !os.IsNotExist(err) {
		// A missing metadata file is tolerated; the list alone is servable.
		return nil, errors.WrapIO("read", s.MetadataPath(), err)
	}

	return catalogs.NewSnapshot(participants, meta), nil
}

// Exists reports whether a published participant list is on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.ParticipantsPath())
	return err == nil
}

// replace writes data to a temp file next to path and atomically renames it
// into place.
func (s *Store) replace(path string, data []byte) error {
	tempFile, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return errors.WrapIO("write", path, err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("close", path, err)
	}
	if err := os.Chmod(tempPath, constants.FilePermissions); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("chmod", path, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
