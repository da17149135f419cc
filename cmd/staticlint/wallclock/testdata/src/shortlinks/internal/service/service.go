package service

import "time"

type clock interface {
	Now() time.Time
}

func stamp(c clock) time.Time {
	return c.Now().UTC().Truncate(time.Millisecond)
}

func expired(c clock, created time.Time) bool {
	return c.Now().Sub(created) > 72*time.Hour
}

func wall() time.Time {
	return time.Now() // want `прямой вызов time.Now запрещён`
}

func wait() {
	time.Sleep(time.Second) // want `прямой вызов time.Sleep запрещён`
	<-time.After(time.Second) // want `прямой вызов time.After запрещён`
}

func age(t time.Time) time.Duration {
	return time.Since(t) // want `прямой вызов time.Since запрещён`
}

func ticker() *time.Ticker {
	return time.NewTicker(time.Minute) // want `прямой вызов time.NewTicker запрещён`
}

func parse(ms int64) time.Time {
	return time.UnixMilli(ms)
}
