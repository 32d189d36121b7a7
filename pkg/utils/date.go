package utils

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
)

const (
	DisplayDateLayout = "Jan 2, 2006"
	MonthKeyLayout    = "2006-01"
	MonthLabelLayout  = "Jan 2006"
)

var ErrEmptyDate = errors.New("empty date")

// ParseDate interpreta datas em formatos variados, sempre em UTC
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, ErrEmptyDate
	}

	date, err := dateparse.ParseIn(dateStr, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid date %q", dateStr)
	}

	return date.UTC(), nil
}

func MonthKey(date time.Time) string {
	return date.Format(MonthKeyLayout)
}

func MonthLabel(date time.Time) string {
	return date.Format(MonthLabelLayout)
}
