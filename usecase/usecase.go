package usecase

import (
	"encoding/json"
	"time"

	"github.com/qualens/qualens/infrastructure/api"
)

// Cache TTLs tuned to how often each kind of data changes: seconds for live
// job status, minutes for listings, tens of minutes for schema and
// statistics that the backend recomputes on a slow cadence.
const (
	ttlJobStatus = 5 * time.Second
	ttlListing   = 2 * time.Minute
	ttlResults   = time.Minute
	ttlStats     = 10 * time.Minute
	ttlSchema    = 30 * time.Minute
	ttlProfiles  = 15 * time.Minute
)

// decodeList unmarshals a list payload through the legacy adapter, which
// tolerates the historical {"<field>": [...]} and bare-array shapes.
func decodeList[T any](payload json.RawMessage, field string) ([]T, error) {
	var out []T
	if err := json.Unmarshal(api.LegacyPayload(payload, field), &out); err != nil {
		return nil, err
	}
	return out, nil
}
