package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// listUnlock is one entry of the list-form unlock files.
type listUnlock struct {
	APIName    string `json:"apiname"`
	Achieved   int    `json:"achieved"`
	UnlockTime int64  `json:"unlocktime"`
}

// LoadUnlocks reads a title's unlock records. achievements.json is tried
// first and may hold either the map form or the list form; the <appid>.db
// file always holds the list form. The returned source names which file and
// form was used. A title with no readable unlock file returns nil records.
func (s *Store) LoadUnlocks(appID string) (map[string]UnlockRecord, string) {
	dir := s.TitleDir(appID)

	if data, err := os.ReadFile(filepath.Join(dir, unlocksFileName)); err == nil {
		if records, form, err := parseUnlocks(data); err == nil {
			return records, form
		} else {
			s.logger.WithError(err).WithField("appid", appID).Warn("Could not parse achievements.json")
		}
	}

	dbPath := filepath.Join(dir, appID+".db")
	if data, err := os.ReadFile(dbPath); err == nil {
		var list []listUnlock
		if err := json.Unmarshal(data, &list); err != nil {
			s.logger.WithError(err).WithField("appid", appID).Warn("Could not parse unlock db file")
			return nil, ""
		}
		return convertListUnlocks(list), appID + ".db"
	}

	return nil, ""
}

// parseUnlocks handles both forms achievements.json appears in.
func parseUnlocks(data []byte) (map[string]UnlockRecord, string, error) {
	var records map[string]UnlockRecord
	if err := json.Unmarshal(data, &records); err == nil {
		return records, "json", nil
	}

	var list []listUnlock
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, "", fmt.Errorf("unlock file is neither map nor list form: %w", err)
	}
	return convertListUnlocks(list), "json-list", nil
}

func convertListUnlocks(list []listUnlock) map[string]UnlockRecord {
	records := make(map[string]UnlockRecord, len(list))
	for _, entry := range list {
		if entry.APIName == "" {
			continue
		}
		records[entry.APIName] = UnlockRecord{
			Earned:     entry.Achieved == 1,
			EarnedTime: entry.UnlockTime,
		}
	}
	return records
}
