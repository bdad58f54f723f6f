package domain

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var publicIDEntropy = struct {
	sync.Mutex
	reader *ulid.MonotonicEntropy
}{reader: ulid.Monotonic(rand.Reader, 0)}

// NewPublicID genera un ULID de 26 caracteres, ordenable lexicográficamente.
// La entropía monotónica garantiza unicidad dentro del mismo milisegundo.
func NewPublicID() string {
	publicIDEntropy.Lock()
	defer publicIDEntropy.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), publicIDEntropy.reader).String()
}
