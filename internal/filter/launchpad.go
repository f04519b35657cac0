package filter

import "strings"

// blacklistedLaunchpads are launch venues whose listings are never traded.
// Matching is case-insensitive exact match.
var blacklistedLaunchpads = map[string]struct{}{
	"believe":      {},
	"jup-studio":   {},
	"bags.fun":     {},
	"moonshot":     {},
	"bunt.fun":     {},
	"dialect":      {},
	"xcombinator":  {},
	"met-dbc":      {},
	"boop":         {},
	"moonit":       {},
	"ego":          {},
	"aicraft":      {},
	"dubdub":       {},
	"sendshot":     {},
	"trends.fun":   {},
	"candle":       {},
	"slerfpar":     {},
	"nouns.fun":    {},
	"daos.fun":     {},
	"circus.fun":   {},
	"time.fun":     {},
	"revshare":     {},
	"cults.fun":    {},
	"cooking.city": {},
	"print.fun":    {},
	"virtuals":     {},
	"shout":        {},
	"opinions.fun": {},
	"dealr.fun":    {},
	"madness.fun":  {},
	"oneshot.meme": {},
	"ethics":       {},
}

// LaunchpadBlacklisted reports whether the given launch venue is on the
// fixed blacklist. An empty venue is not blacklisted.
func LaunchpadBlacklisted(launchpad string) bool {
	if launchpad == "" {
		return false
	}
	_, ok := blacklistedLaunchpads[strings.ToLower(launchpad)]
	return ok
}
