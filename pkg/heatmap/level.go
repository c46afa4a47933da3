package heatmap

import (
	"fmt"
	"strconv"
)

// Level is the 0-4 intensity bucket of a day.
type Level int

const (
	LevelNone Level = iota
	LevelLow
	LevelMedium
	LevelHigh
	LevelMax
)

// Class returns the style class identifier used by renderers.
func (l Level) Class() string {
	if l < LevelNone {
		l = LevelNone
	}
	if l > LevelMax {
		l = LevelMax
	}
	return "level-" + strconv.Itoa(int(l))
}

// Thresholds holds the minimum card count for levels 1 through 4.
type Thresholds [4]int

var DefaultThresholds = Thresholds{1, 4, 10, 20}

// Level classifies a card count. Zero (or a negative count) is always level 0.
func (t Thresholds) Level(cards int) Level {
	if cards <= 0 {
		return LevelNone
	}
	level := LevelLow
	for i := len(t) - 1; i >= 1; i-- {
		if cards >= t[i] {
			level = Level(i + 1)
			break
		}
	}
	return level
}

// Validate reports whether the thresholds keep level 0 exclusive to zero
// cards and stay strictly increasing.
func (t Thresholds) Validate() error {
	if t[0] != 1 {
		return fmt.Errorf("heatmap: first threshold must be 1, got %d", t[0])
	}
	for i := 1; i < len(t); i++ {
		if t[i] <= t[i-1] {
			return fmt.Errorf("heatmap: thresholds must be strictly increasing, got %v", [4]int(t))
		}
	}
	return nil
}

// ClassifyLevel uses DefaultThresholds.
func ClassifyLevel(cards int) Level {
	return DefaultThresholds.Level(cards)
}
