package app

import "time"

// dailyTrigger 维护每日固定时刻的下一次触发时间。
// 创建时若当日触发点已过，则顺延到次日，与轮询式调度器
// "到点即触发，触发后推进一天" 的契约保持一致。
type dailyTrigger struct {
	hour   int
	minute int
	loc    *time.Location
	next   time.Time
}

func newDailyTrigger(hour, minute int, loc *time.Location, now time.Time) *dailyTrigger {
	t := &dailyTrigger{hour: hour, minute: minute, loc: loc}
	t.next = t.fireAt(now.In(loc))
	if !t.next.After(now) {
		t.next = t.next.AddDate(0, 0, 1)
	}
	return t
}

func (t *dailyTrigger) fireAt(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.hour, t.minute, 0, 0, t.loc)
}

// due 判断当前时间是否到达触发点。
func (t *dailyTrigger) due(now time.Time) bool {
	return !now.Before(t.next)
}

// advance 把触发点推进到 now 之后的下一天，进程休眠数日后
// 恢复也只会补跑一次。
func (t *dailyTrigger) advance(now time.Time) {
	for !t.next.After(now) {
		t.next = t.next.AddDate(0, 0, 1)
	}
}
