// Package uid generates the 128-bit class identifiers a plugin declares for
// its processor and controller. Values are rendered as a C initializer list
// of four 32-bit hex words so they can replace a placeholder in source.
package uid

import (
	"fmt"
	"io"
	"regexp"

	"github.com/google/uuid"
)

// Pattern matches every value Generate returns.
var Pattern = regexp.MustCompile(`^0x[0-9a-f]{8}, 0x[0-9a-f]{8}, 0x[0-9a-f]{8}, 0x[0-9a-f]{8}$`)

// Generate returns a fresh random identifier, e.g.
// "0x61ea12ab, 0xc25447ea, 0xabd8d344, 0xb21a7b40".
func Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generating uid: %w", err)
	}
	return Format(id), nil
}

// GenerateFrom is Generate with randomness drawn from r.
func GenerateFrom(r io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", fmt.Errorf("generating uid: %w", err)
	}
	return Format(id), nil
}

// Format renders the 16 bytes of id as four comma-separated 0x-prefixed
// words, most significant byte first.
func Format(id uuid.UUID) string {
	return fmt.Sprintf("0x%02x%02x%02x%02x, 0x%02x%02x%02x%02x, 0x%02x%02x%02x%02x, 0x%02x%02x%02x%02x",
		id[0], id[1], id[2], id[3],
		id[4], id[5], id[6], id[7],
		id[8], id[9], id[10], id[11],
		id[12], id[13], id[14], id[15])
}
