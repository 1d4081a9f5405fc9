package highlight

import "sync"

var (
	memo   = make(map[string]string)
	memoMu sync.RWMutex
)

// Cached is Highlight behind a process-wide memo. Block renderers re-run on
// every reconciliation pass, so repeated inputs dominate.
func Cached(text, language, theme, bgHex string) string {
	key := language + ":" + theme + ":" + bgHex + ":" + text
	memoMu.RLock()
	if v, ok := memo[key]; ok {
		memoMu.RUnlock()
		return v
	}
	memoMu.RUnlock()

	out := Highlight(text, language, theme, bgHex)

	memoMu.Lock()
	if len(memo) > 2000 {
		memo = make(map[string]string)
	}
	memo[key] = out
	memoMu.Unlock()
	return out
}
