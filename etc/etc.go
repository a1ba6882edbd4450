package etc

import (
	"fmt"
	"time"

	"github.com/nrednav/cuid2"
)

func NewFreshID() string {
	return cuid2.Generate()
}

// ScratchName builds a collision-free file name for a transient audio
// artifact. Uniqueness comes from the nanosecond timestamp; the id suffix
// covers clock ties between goroutines.
func ScratchName(prefix, ext string) string {
	return fmt.Sprintf("%s_%d_%s%s", prefix, time.Now().UnixNano(), cuid2.Generate(), ext)
}
