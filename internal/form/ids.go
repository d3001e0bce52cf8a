package form

import (
	"sync"

	"github.com/sqids/sqids-go"
)

var (
	encoderInstance *sqids.Sqids
	encoderOnce     sync.Once
)

func getEncoder() *sqids.Sqids {
	encoderOnce.Do(func() {
		s, err := sqids.New(sqids.Options{
			Alphabet:  "0123456789abcdefghijklmnopqrstuvwxyz",
			MinLength: 6,
		})
		if err != nil {
			// options are constant; failing here is a programming error
			panic(err)
		}
		encoderInstance = s
	})
	return encoderInstance
}

// idSource hands out row ids for one page. The counter only moves forward,
// so an id that was removed or reset is never handed out again and a stale
// input can never land on a newer row.
type idSource struct {
	next uint64
}

func (s *idSource) newID() string {
	s.next++
	id, err := getEncoder().Encode([]uint64{s.next})
	if err != nil {
		// Encode only fails once the blocklist exhausts every retry for a
		// number; skip to the next one.
		return s.newID()
	}
	return id
}
