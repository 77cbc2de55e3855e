package cache

import (
	"time"
)

// refreshHour はその日の終値が確定するニューヨーク現地時刻（時）です。
const refreshHour = 18

// newYork はtzdataが無い環境ではEST固定オフセットにフォールバックします。
var newYork = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}()

// TimeUntilNextRefresh は次のニューヨーク時間18:00（終値確定後）までの期間を返します。
func TimeUntilNextRefresh(now time.Time) time.Duration {
	return timeUntilNext(now, refreshHour, newYork)
}

// timeUntilNext は loc における次の hour:00 までの期間を返します。
func timeUntilNext(now time.Time, hour int, loc *time.Location) time.Duration {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)

	// 今日の更新時刻が既に過ぎている場合は明日を使用
	if !local.Before(next) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, 0, 0, 0, loc)
	}
	return next.Sub(now)
}
