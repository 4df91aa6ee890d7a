package catalog

// Rebuild assembles the aggregate catalog from every title directory under
// the data root. Titles refreshed this run are taken from updated; the rest
// carry over their persisted game-info.json, or a stub when none exists.
// Titles without an unlock record file are excluded entirely.
func (s *Store) Rebuild(updated map[string]Entry) ([]Entry, error) {
	ids, err := s.ListTitleIDs()
	if err != nil {
		return nil, err
	}

	catalog := make([]Entry, 0, len(ids))
	for _, appID := range ids {
		if entry, ok := updated[appID]; ok {
			catalog = append(catalog, entry)
			continue
		}

		records, source := s.LoadUnlocks(appID)
		if records == nil {
			continue
		}

		s.logger.WithFields(map[string]interface{}{
			"appid":  appID,
			"source": source,
		}).Debug("Carrying over persisted title")

		catalog = append(catalog, Entry{
			AppID:        appID,
			Info:         s.LoadTitleInfo(appID),
			Achievements: records,
		})
	}

	return catalog, nil
}

// WriteCatalog persists the aggregate catalog atomically.
func (s *Store) WriteCatalog(path string, catalog []Entry) error {
	return writeJSONAtomic(path, catalog)
}
