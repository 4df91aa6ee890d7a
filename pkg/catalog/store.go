package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lordzed/achievement-viewer/pkg/logger"
	"github.com/lordzed/achievement-viewer/pkg/steam"
)

const (
	infoFileName    = "game-info.json"
	unlocksFileName = "achievements.json"
	blacklistName   = "blacklist"
	skipMarkerName  = "skip"
	missingFileName = "missing hidden achievements"
)

// Store reads and writes per-title files under the data root.
type Store struct {
	root   string
	logger logger.Logger
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, log logger.Logger) *Store {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Store{root: dir, logger: log}
}

// Root returns the data root directory.
func (s *Store) Root() string {
	return s.root
}

// TitleDir returns the directory holding one title's files.
func (s *Store) TitleDir(appID string) string {
	return filepath.Join(s.root, appID)
}

// ListTitleIDs returns every numeric title directory that holds an unlock
// record file, in ascending numeric order.
func (s *Store) ListTitleIDs() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read data root: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() || !isNumeric(entry.Name()) {
			continue
		}
		if s.HasUnlockFile(entry.Name()) {
			ids = append(ids, entry.Name())
		}
	}

	sortNumeric(ids)
	return ids, nil
}

// HasUnlockFile reports whether the title has any unlock record file.
func (s *Store) HasUnlockFile(appID string) bool {
	dir := s.TitleDir(appID)
	if _, err := os.Stat(filepath.Join(dir, unlocksFileName)); err == nil {
		return true
	}
	_, err := os.Stat(filepath.Join(dir, appID+".db"))
	return err == nil
}

// UsesDBFile reports whether the title stores unlocks in the .db form.
func (s *Store) UsesDBFile(appID string) bool {
	_, err := os.Stat(filepath.Join(s.TitleDir(appID), appID+".db"))
	return err == nil
}

// HasSkipMarker reports whether the title is marked to be left alone.
func (s *Store) HasSkipMarker(appID string) bool {
	_, err := os.Stat(filepath.Join(s.TitleDir(appID), skipMarkerName))
	return err == nil
}

// Platform returns the storefront marker for a title, if any. The marker is
// a file named like "Epic.platform"; its stem is the platform name.
func (s *Store) Platform(appID string) *string {
	matches, err := filepath.Glob(filepath.Join(s.TitleDir(appID), "*.platform"))
	if err != nil || len(matches) == 0 {
		return nil
	}
	name := strings.TrimSuffix(filepath.Base(matches[0]), ".platform")
	return &name
}

// Blacklist returns the title's excluded achievement API names, one per
// line in the blacklist file. A missing file means an empty list.
func (s *Store) Blacklist(appID string) []string {
	data, err := os.ReadFile(filepath.Join(s.TitleDir(appID), blacklistName))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).WithField("appid", appID).Warn("Could not read blacklist")
		}
		return []string{}
	}

	names := []string{}
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names
}

// LoadTitleInfo reads a title's merged document. A missing or unreadable
// file yields a stub; refresh runs treat both the same way.
func (s *Store) LoadTitleInfo(appID string) TitleInfo {
	data, err := os.ReadFile(filepath.Join(s.TitleDir(appID), infoFileName))
	if err != nil {
		return NewTitleInfo(appID)
	}

	var info TitleInfo
	if err := json.Unmarshal(data, &info); err != nil {
		s.logger.WithError(err).WithField("appid", appID).Warn("Malformed game-info.json, starting fresh")
		return NewTitleInfo(appID)
	}

	info.AppID = appID
	if info.Achievements == nil {
		info.Achievements = make(map[string]steam.Achievement)
	}
	if info.Blacklist == nil {
		info.Blacklist = []string{}
	}
	return info
}

// SaveTitleInfo writes a title's merged document atomically.
func (s *Store) SaveTitleInfo(info TitleInfo) error {
	dir := s.TitleDir(info.AppID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create title directory: %w", err)
	}
	return writeJSONAtomic(filepath.Join(dir, infoFileName), info)
}

// WriteMissingMarker records the API names of hidden achievements that still
// lack a description, one per line. An empty list removes the marker.
func (s *Store) WriteMissingMarker(appID string, apiNames []string) error {
	path := filepath.Join(s.TitleDir(appID), missingFileName)

	if len(apiNames) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove missing marker: %w", err)
		}
		return nil
	}

	var b strings.Builder
	for _, name := range apiNames {
		b.WriteString(name)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write missing marker: %w", err)
	}
	return nil
}

// writeJSONAtomic marshals v and writes it through a temp file and rename.
func writeJSONAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// sortNumeric orders ID strings by numeric value, shorter strings first.
func sortNumeric(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) < len(ids[j])
		}
		return ids[i] < ids[j]
	})
}
