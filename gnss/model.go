package gnss

import (
	"fmt"
	"math/rand"
)

// simClock is the simulated wall-clock time of day. It only ever moves
// forward, one second per tick, wrapping at 24:00:00.
type simClock struct {
	hour   int
	minute int
	second int
}

// parseTimeOfDay parses an HH:MM:SS string into a simClock.
func parseTimeOfDay(s string) (simClock, error) {
	var c simClock
	n, err := fmt.Sscanf(s, "%d:%d:%d", &c.hour, &c.minute, &c.second)
	if err != nil || n != 3 {
		return simClock{}, ErrInvalidStartTime
	}
	if c.hour < 0 || c.hour > 23 || c.minute < 0 || c.minute > 59 || c.second < 0 || c.second > 59 {
		return simClock{}, ErrInvalidStartTime
	}
	return c, nil
}

// tick advances the clock by one second with carry into minutes and hours.
func (c *simClock) tick() {
	c.second++
	if c.second >= 60 {
		c.second = 0
		c.minute++
		if c.minute >= 60 {
			c.minute = 0
			c.hour++
			if c.hour >= 24 {
				c.hour = 0
			}
		}
	}
}

// coordinate is one axis of the simulated fix in NMEA degrees/minutes form:
// whole degrees, whole minutes and four decimal places of minutes, plus the
// hemisphere sign.
type coordinate struct {
	deg      int
	minInt   int
	minFrac  int // .0000-.9999 of a minute
	negative bool
}

// deriveCoordinate converts a signed micro-degree value into NMEA
// degrees/minutes form using integer arithmetic only, e.g.
// -35315075 -> 35 deg 18.9045 min, southern hemisphere.
func deriveCoordinate(microDeg int) coordinate {
	abs := microDeg
	if abs < 0 {
		abs = -abs
	}
	minPart := (abs % 1000000) * 60
	return coordinate{
		deg:      abs / 1000000,
		minInt:   minPart / 1000000,
		minFrac:  (minPart % 1000000) / 100, // keep four decimal places
		negative: microDeg < 0,
	}
}

// jitter perturbs the fractional minutes by a random amount in [-19, +19]
// to simulate receiver noise. The result is clamped to [0, 9999] with no
// carry into whole minutes; the clamp is part of the modeled behavior, not
// a rounding shortcut.
func (c *coordinate) jitter() {
	j := rand.Intn(20)
	if rand.Intn(2) == 1 {
		c.minFrac += j
	} else {
		c.minFrac -= j
	}
	if c.minFrac < 0 {
		c.minFrac = 0
	}
	if c.minFrac > 9999 {
		c.minFrac = 9999
	}
}

// hemisphere returns the hemisphere letter for the coordinate, e.g.
// ('S', 'N') for latitude or ('W', 'E') for longitude.
func (c coordinate) hemisphere(neg, pos byte) byte {
	if c.negative {
		return neg
	}
	return pos
}

// satellite is one entry of the static virtual constellation.
type satellite struct {
	prn     int
	elev    int // degrees above horizon
	az      int // degrees from north
	baseSNR int // nominal signal-to-noise ratio in dB
}

// constellation is the fixed set of eight satellites the simulator reports.
var constellation = [8]satellite{
	{1, 45, 120, 30},
	{3, 60, 210, 35},
	{6, 30, 45, 25},
	{9, 15, 300, 20},
	{12, 70, 180, 40},
	{17, 25, 90, 28},
	{22, 10, 270, 15},
	{28, 50, 330, 32},
}
