// Package donors manages the ranked pool of donor profiles used for
// hidden-achievement recovery. The pool lives in a small JSON file next to
// the data directory and heals itself from a built-in list when the file is
// missing or unreadable.
package donors

import (
	"encoding/json"
	"os"
	"time"

	"github.com/lordzed/achievement-viewer/pkg/logger"
)

// defaultPool is the built-in ranked donor list, used whenever no pool file
// is available. Order matters: earlier profiles own more titles and are
// consulted first.
var defaultPool = []int64{
	76561198028121353,
	76561198017975643,
	76561197979911851,
	76561198355953202,
	76561197993544755,
	76561198001237877,
	76561198355625888,
	76561198217186687,
	76561198152618007,
	76561198237402290,
	76561198213148949,
	76561197973009892,
	76561198037867621,
	76561197969050296,
	76561198019712127,
	76561198094227663,
	76561197965319961,
	76561197976597747,
	76561197963550511,
	76561198044596404,
	76561198134044398,
	76561198367471798,
	76561199492215670,
	76561197962473290,
	76561198842603734,
	76561198119667710,
	76561197969810632,
	76561197995070100,
	76561198017902347,
	76561197996432822,
	76561198082995144,
	76561198027214426,
}

// Pool is the persisted donor list.
type Pool struct {
	SteamIDs []int64 `json:"steam_ids"`
	Updated  string  `json:"updated,omitempty"`
}

// DefaultIDs returns a copy of the built-in donor list.
func DefaultIDs() []int64 {
	out := make([]int64, len(defaultPool))
	copy(out, defaultPool)
	return out
}

// Load reads the donor pool from path. When the file is missing it is
// recreated from the built-in list so later runs can be curated by editing
// it; when it exists but cannot be read or holds no IDs, the built-in list
// is used without touching the file.
func Load(path string, log logger.Logger) []int64 {
	if log == nil {
		log = logger.GetLogger()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if werr := Save(path, DefaultIDs(), "created from built-in list"); werr != nil {
				log.WithError(werr).Warn("Could not create donor pool file")
			} else {
				log.WithField("path", path).Info("Created donor pool file from built-in list")
			}
		} else {
			log.WithError(err).Warn("Could not read donor pool file, using built-in list")
		}
		return DefaultIDs()
	}

	var pool Pool
	if err := json.Unmarshal(data, &pool); err != nil {
		log.WithError(err).Warn("Donor pool file is malformed, using built-in list")
		return DefaultIDs()
	}
	if len(pool.SteamIDs) == 0 {
		log.WithField("path", path).Warn("Donor pool file holds no IDs, using built-in list")
		return DefaultIDs()
	}

	log.WithFields(map[string]interface{}{
		"path":  path,
		"count": len(pool.SteamIDs),
	}).Debug("Loaded donor pool")

	return pool.SteamIDs
}

// Save writes the donor pool to path.
func Save(path string, steamIDs []int64, note string) error {
	if note == "" {
		note = time.Now().UTC().Format(time.RFC3339)
	}
	data, err := json.MarshalIndent(Pool{SteamIDs: steamIDs, Updated: note}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
