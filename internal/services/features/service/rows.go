package service

import (
	"strconv"
	"strings"

	perr "seqfeat/internal/platform/errors"
)

// ValidateRowCount parses a user supplied row count and checks it against 1..maxRows
func ValidateRowCount(input string, maxRows int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, perr.WithField(perr.InvalidArgf("invalid input %q, please enter a valid integer", input), "rows")
	}
	if n <= 0 || n > maxRows {
		return 0, perr.WithField(perr.InvalidArgf("please enter a number between 1 and %d", maxRows), "rows")
	}
	return n, nil
}
