// Copyright (C) 2025-2026 Blockkit, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package idgen generates service instance IDs and short job IDs.
package idgen

import (
	crand "crypto/rand"
	"encoding/base32"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/sony/sonyflake"
)

var defaultFlake *sonyflake.Sonyflake

func init() {
	var err error
	defaultFlake, err = sonyflake.New(sonyflake.Settings{
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		panic(errors.Join(errors.New("idgen: sonyflake init failed"), err))
	}
}

// InstanceID returns a positive int64 that increases roughly in time
// order, used to tag logs and metrics from this process.
func InstanceID() int64 {
	v, err := defaultFlake.NextID()
	if err != nil {
		return rand.Int64()
	}
	return int64(v)
}

// ShortID returns an 8-character lowercase base32 ID for correlating
// log lines of one refresh job. Not for security-sensitive use.
func ShortID() string {
	b := make([]byte, 5) // 5 bytes = 8 base32 chars
	_, _ = crand.Read(b)
	return strings.ToLower(base32.StdEncoding.EncodeToString(b))
}
