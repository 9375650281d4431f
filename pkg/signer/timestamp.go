// Copyright (C) 2025 Xache Protocol
//
// This file is part of xache-go.
//
// xache-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// xache-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with xache-go.  If not, see <https://www.gnu.org/licenses/>.

package signer

import (
	"fmt"
	"time"

	"github.com/xache-protocol/xache-go/pkg/errdefs"
)

// TimestampWindow is the maximum distance, in either direction, between a
// request timestamp and the verifier's clock.
const TimestampWindow = 5 * time.Minute

// ValidateTimestamp fails with errdefs.ErrClockSkew unless
// |nowMs - timestampMs| <= 300000.
func ValidateTimestamp(timestampMs, nowMs int64) error {
	// Distance in uint64 so that extreme values cannot wrap around.
	var diff uint64
	if nowMs >= timestampMs {
		diff = uint64(nowMs) - uint64(timestampMs)
	} else {
		diff = uint64(timestampMs) - uint64(nowMs)
	}
	if diff > uint64(TimestampWindow.Milliseconds()) {
		return fmt.Errorf("%w: timestamp %d is %dms from now", errdefs.ErrClockSkew, timestampMs, diff)
	}
	return nil
}

// NowMillis returns the current time in milliseconds since the epoch.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
