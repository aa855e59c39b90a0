package store

// DevSettingsStore holds the per-community dev time offset and the state
// generation counter. The offset exists so testers can simulate day rollovers
// without waiting; production communities keep it at 0. The generation fences
// out all prior user records on a community reset without enumerating keys.
type DevSettingsStore struct {
	redis *RedisStore
}

func NewDevSettingsStore(redis *RedisStore) *DevSettingsStore {
	return &DevSettingsStore{redis: redis}
}

// DevTimeOffsetSeconds implements clock.OffsetSource.
func (ds *DevSettingsStore) DevTimeOffsetSeconds(communityID string) (int64, error) {
	val, err := ds.redis.HGet(devSettingsKey(communityID), "devTimeOffsetSeconds")
	if err != nil || val == "" {
		return 0, err
	}
	return parseInt64Default(val, 0), nil
}

func (ds *DevSettingsStore) SetDevTimeOffsetSeconds(communityID string, seconds int64) error {
	return ds.redis.HSet(devSettingsKey(communityID), map[string]interface{}{
		"devTimeOffsetSeconds": seconds,
	})
}

// Generation returns the community's current state generation, 0 when unset.
func (ds *DevSettingsStore) Generation(communityID string) (int64, error) {
	val, err := ds.redis.HGet(devSettingsKey(communityID), "stateGeneration")
	if err != nil || val == "" {
		return 0, err
	}
	return parseInt64Default(val, 0), nil
}

// BumpGeneration atomically advances the generation and returns the new
// value. In-flight writes tagged with the old generation become invisible
// the moment this lands; nothing needs to be cancelled or awaited.
func (ds *DevSettingsStore) BumpGeneration(communityID string) (int64, error) {
	return ds.redis.HIncrBy(devSettingsKey(communityID), "stateGeneration", 1)
}
