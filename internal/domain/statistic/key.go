package statistic

import (
	"fmt"

	"github.com/timechallenge/backend/pkg/dateutil"
)

// redisKeyLeaderboardVersion holds a counter bumped on every invalidation.
// Cached leaderboards embed the version they were computed under, so a write
// racing with an invalidation lands on a key nobody reads anymore.
func redisKeyLeaderboardVersion(challengeID string) string {
	return fmt.Sprintf("leaderboard:%s:version", challengeID)
}

func redisKeyLifetimeLeaderboard(challengeID string, version int64) string {
	return fmt.Sprintf("leaderboard:%s:v%d:lifetime", challengeID, version)
}

func redisKeyWindowLeaderboard(challengeID string, version int64, window dateutil.Window) string {
	return fmt.Sprintf("leaderboard:%s:v%d:window:%s", challengeID, version, window.Key())
}
