package auth

import "time"

// DailyWindow is a fixed-window counter keyed to the UTC calendar day. The
// count carried in profile rows resets implicitly when the last send falls
// on an earlier UTC day than now.
type DailyWindow struct {
	Cooldown time.Duration
	Limit    int
}

// Next returns the count to persist for a send happening at now, or an
// outcome telling the caller to refuse. lastSent may be nil for a first send.
func (w DailyWindow) Next(lastSent *time.Time, count int, now time.Time) (int, SendOutcome) {
	if lastSent != nil {
		if now.Sub(*lastSent) < w.Cooldown {
			return count, SendCooldown
		}
		if sameUTCDay(*lastSent, now) {
			if count >= w.Limit {
				return count, SendDailyCap
			}
			return count + 1, SendOK
		}
	}
	return 1, SendOK
}

type SendOutcome int

const (
	SendOK SendOutcome = iota
	SendCooldown
	SendDailyCap
)

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
