package model

import (
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const idSuffixLen = 9

// NewID builds "<unix millis><9 base36 chars>". The suffix comes from a v4
// UUID so two ids minted in the same millisecond still differ.
func NewID(now time.Time) string {
	u := uuid.New()
	suffix := new(big.Int).SetBytes(u[:]).Text(36)
	for len(suffix) < idSuffixLen {
		suffix = "0" + suffix
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + suffix[len(suffix)-idSuffixLen:]
}
