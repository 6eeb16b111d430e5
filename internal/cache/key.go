package cache

import "strings"

// apiPrefix is stripped from request URIs before key derivation so keys stay
// short and stable across authenticated/anonymous calls.
const apiPrefix = "https://api.github.com/"

var keyReplacer = strings.NewReplacer(
	"/", "_",
	"?", "_",
	"&", "_",
	"=", "_",
)

// Key derives a filesystem-safe cache key from a request URI.
//
// Rules: the known API host prefix is stripped, then every path/query
// separator (slash, question mark, ampersand, equals) becomes an underscore.
// Distinct endpoints of the shapes this tool requests do not collide under
// this scheme; it makes no stronger guarantee than that.
func Key(uri string) string {
	trimmed := strings.TrimPrefix(uri, apiPrefix)
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	return keyReplacer.Replace(trimmed)
}
