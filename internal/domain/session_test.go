package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_Expired(t *testing.T) {
	closeAt := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	s := Session{CloseAt: closeAt}

	assert.False(t, s.Expired(closeAt.Add(-time.Second)))
	assert.True(t, s.Expired(closeAt))
	assert.True(t, s.Expired(closeAt.Add(time.Minute)))
}

func TestSession_HorizonMinutes(t *testing.T) {
	closeAt := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	s := Session{CloseAt: closeAt}

	assert.Equal(t, 30, s.HorizonMinutes(closeAt.Add(-30*time.Minute)))
	assert.Equal(t, 13, s.HorizonMinutes(closeAt.Add(-12*time.Minute-40*time.Second)))
	// Never below one minute, even past close.
	assert.Equal(t, 1, s.HorizonMinutes(closeAt.Add(-10*time.Second)))
	assert.Equal(t, 1, s.HorizonMinutes(closeAt.Add(time.Minute)))
}

func TestNextHourClose(t *testing.T) {
	now := time.Date(2025, 6, 1, 14, 22, 31, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC), NextHourClose(now))

	onTheHour := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC), NextHourClose(onTheHour))
}
