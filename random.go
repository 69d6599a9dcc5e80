package megagen

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// Alias and name generation draws from crypto/rand only.

var firstNames = []string{
	"Alex", "Jordan", "Sam", "Taylor", "Morgan", "Casey", "Riley", "Jamie",
	"Chris", "Robin", "Dana", "Lee", "Quinn", "Drew", "Blake", "Reese",
	"Avery", "Cameron", "Devon", "Skyler",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Miller", "Davis",
	"Wilson", "Moore", "Taylor", "Anderson", "Thomas", "Jackson", "White",
	"Harris", "Martin", "Thompson", "Walker", "Young", "King",
}

// randomAlias returns a fresh lowercase mailbox alias derived from a v4 UUID.
func randomAlias() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// randomName returns a plausible display name such as "Alex Walker".
func randomName() string {
	return pick(firstNames) + " " + pick(lastNames)
}

// pick selects a random element. Panics if the system random source fails,
// same as uuid.New.
func pick(list []string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(list))))
	if err != nil {
		panic(err)
	}
	return list[n.Int64()]
}
