package main

import (
	"strconv"
	"strings"

	"roomedit/room"

	"github.com/pkg/errors"
)

// parseRoomList parses a comma delimited list of hex room numbers, ranges
// written x..y inclusive.
func parseRoomList(s string) ([]room.ID, error) {
	list := make([]room.ID, 0, 16)
	for s != "" {
		exprStr, remainder, found := strings.Cut(s, ",")
		if !found {
			exprStr = s
		}
		s = remainder
		exprStr = strings.TrimSpace(exprStr)
		if exprStr == "" {
			continue
		}

		// check if it's a range:
		if rangeStartStr, rangeEndStr, hasRange := strings.Cut(exprStr, ".."); hasRange {
			rs, err := strconv.ParseUint(rangeStartStr, 16, 16)
			if err != nil {
				return nil, errors.Wrapf(err, "room range %q", exprStr)
			}
			re, err := strconv.ParseUint(rangeEndStr, 16, 16)
			if err != nil {
				return nil, errors.Wrapf(err, "room range %q", exprStr)
			}
			if re < rs {
				return nil, errors.Errorf("room range %q is reversed", exprStr)
			}
			for i := rs; i <= re; i++ {
				list = append(list, room.ID(i))
			}
		} else {
			// single number:
			r, err := strconv.ParseUint(exprStr, 16, 16)
			if err != nil {
				return nil, errors.Wrapf(err, "room %q", exprStr)
			}
			list = append(list, room.ID(r))
		}
	}
	return list, nil
}
