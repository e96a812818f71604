// DevAtlas - Device Specifications Catalog and Ingestion Engine
// Copyright 2026 DevAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/devatlas/devatlas

package ingest

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
	"time"
)

// Schedule is a parsed 5-field cron expression (minute hour day-of-month
// month day-of-week). Each field is a bit set over the field's value range.
type Schedule struct {
	minutes     uint64
	hours       uint64
	daysOfMonth uint64
	months      uint64
	daysOfWeek  uint64
}

// ParseSchedule parses a standard 5-field cron expression.
//
// Supported syntax per field: * (any), n (value), n-m (range), n,m (list),
// */s and n-m/s (steps). Day-of-week accepts 0-7 with 7 normalized to
// Sunday (0).
//
// Examples: "0 2 * * *" (daily at 02:00), "*/30 * * * *" (every half hour),
// "0 6 * * 1" (Mondays at 06:00).
func ParseSchedule(expr string) (*Schedule, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("cron expression must have 5 fields, got %d", len(fields))
	}

	minutes, err := parseCronField(fields[0], 0, 59)
	if err != nil {
		return nil, fmt.Errorf("invalid minute field: %w", err)
	}
	hours, err := parseCronField(fields[1], 0, 23)
	if err != nil {
		return nil, fmt.Errorf("invalid hour field: %w", err)
	}
	daysOfMonth, err := parseCronField(fields[2], 1, 31)
	if err != nil {
		return nil, fmt.Errorf("invalid day-of-month field: %w", err)
	}
	months, err := parseCronField(fields[3], 1, 12)
	if err != nil {
		return nil, fmt.Errorf("invalid month field: %w", err)
	}
	daysOfWeek, err := parseCronField(fields[4], 0, 7)
	if err != nil {
		return nil, fmt.Errorf("invalid day-of-week field: %w", err)
	}
	// Fold 7 (Sunday) onto 0
	if daysOfWeek&(1<<7) != 0 {
		daysOfWeek = (daysOfWeek &^ (1 << 7)) | 1
	}

	return &Schedule{
		minutes:     minutes,
		hours:       hours,
		daysOfMonth: daysOfMonth,
		months:      months,
		daysOfWeek:  daysOfWeek,
	}, nil
}

// NextRun returns the first matching time strictly after the given time, in
// that time's location. Returns the zero time if nothing matches within four
// years, which only happens for impossible date combinations.
func (s *Schedule) NextRun(after time.Time) time.Time {
	t := after.Add(time.Minute).Truncate(time.Minute)

	maxIterations := 4 * 366 * 24 * 60
	for i := 0; i < maxIterations; i++ {
		if s.matches(t) {
			return t
		}
		t = t.Add(time.Minute)
	}
	return time.Time{}
}

// matches reports whether t satisfies the expression. Day-of-month and
// day-of-week OR together when both are restricted, matching standard cron.
func (s *Schedule) matches(t time.Time) bool {
	if s.minutes&(1<<uint(t.Minute())) == 0 {
		return false
	}
	if s.hours&(1<<uint(t.Hour())) == 0 {
		return false
	}
	if s.months&(1<<uint(t.Month())) == 0 {
		return false
	}

	domMatch := s.daysOfMonth&(1<<uint(t.Day())) != 0
	dowMatch := s.daysOfWeek&(1<<uint(t.Weekday())) != 0
	domWildcard := bits.OnesCount64(s.daysOfMonth) == 31
	dowWildcard := bits.OnesCount64(s.daysOfWeek) == 7

	switch {
	case domWildcard && dowWildcard:
		return true
	case domWildcard:
		return dowMatch
	case dowWildcard:
		return domMatch
	default:
		return domMatch || dowMatch
	}
}

// parseCronField parses one field into a bit set over [minVal, maxVal].
func parseCronField(field string, minVal, maxVal int) (uint64, error) {
	var set uint64
	for _, part := range strings.Split(field, ",") {
		partSet, err := parseCronPart(part, minVal, maxVal)
		if err != nil {
			return 0, err
		}
		set |= partSet
	}
	if set == 0 {
		return 0, fmt.Errorf("empty field %q", field)
	}
	return set, nil
}

func parseCronPart(part string, minVal, maxVal int) (uint64, error) {
	step := 1
	if idx := strings.IndexByte(part, '/'); idx >= 0 {
		s, err := strconv.Atoi(part[idx+1:])
		if err != nil || s <= 0 {
			return 0, fmt.Errorf("invalid step value %q", part[idx+1:])
		}
		step = s
		part = part[:idx]
	}

	start, end := minVal, maxVal
	switch {
	case part == "*":
		// full range
	case strings.Contains(part, "-"):
		rangeParts := strings.SplitN(part, "-", 2)
		var err error
		start, err = strconv.Atoi(rangeParts[0])
		if err != nil {
			return 0, fmt.Errorf("invalid range start %q", rangeParts[0])
		}
		end, err = strconv.Atoi(rangeParts[1])
		if err != nil {
			return 0, fmt.Errorf("invalid range end %q", rangeParts[1])
		}
	default:
		val, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("invalid value %q", part)
		}
		start = val
		if step == 1 {
			end = val
		}
	}

	if start > end || start < minVal || end > maxVal {
		return 0, fmt.Errorf("range %d-%d outside %d-%d", start, end, minVal, maxVal)
	}

	var set uint64
	for v := start; v <= end; v += step {
		set |= 1 << uint(v)
	}
	return set, nil
}
