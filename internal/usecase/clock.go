package usecase

import "time"

// Clock supplies the current time in the store's time zone.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct {
	Location *time.Location
}

// Now implements Clock.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// Recorder receives business level metrics.
type Recorder interface {
	ValidationCompleted(result string)
	OrderPlaced(store string)
	OrderTransitioned(status string)
}

type nopRecorder struct{}

func (nopRecorder) ValidationCompleted(string) {}
func (nopRecorder) OrderPlaced(string)         {}
func (nopRecorder) OrderTransitioned(string)   {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
