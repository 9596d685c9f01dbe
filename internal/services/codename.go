package services

import (
	"fmt"
	"math/rand/v2"
	"regexp"

	"github.com/google/uuid"
)

var (
	codenamePrefixes = []string{"The", "Project", "Operation"}
	codenameNouns    = []string{"Nightingale", "Kraken", "Phoenix", "Shadow", "Ghost", "Specter"}

	confirmationCodePattern = regexp.MustCompile(`^[0-9a-f]{6}$`)
)

const (
	minSuccessProbability = 60
	maxSuccessProbability = 100
)

// GenerateCodename returns "<prefix> <noun>-<0..999>". Collisions are possible.
func GenerateCodename() string {
	return fmt.Sprintf("%s %s-%d",
		codenamePrefixes[rand.IntN(len(codenamePrefixes))],
		codenameNouns[rand.IntN(len(codenameNouns))],
		rand.IntN(1000),
	)
}

// MissionSuccessProbability is uniform over [60, 100].
func MissionSuccessProbability() int {
	return minSuccessProbability + rand.IntN(maxSuccessProbability-minSuccessProbability+1)
}

// NewConfirmationCode returns six lowercase hex characters taken from a
// random UUIDv4.
func NewConfirmationCode() string {
	return uuid.NewString()[:6]
}

// ValidConfirmationCode reports whether code is six lowercase hex characters.
func ValidConfirmationCode(code string) bool {
	return confirmationCodePattern.MatchString(code)
}
