package testing

import (
	"testing"

	"github.com/kpister/elf/internal/logging"
	"github.com/kpister/elf/types"
	"github.com/neilotoole/slogt"
)

// NewTestLogger creates a logger that writes to the test output.
//
// Records are emitted at every level through slogt, so they only show up for
// failing tests or with go test -v.
func NewTestLogger(t *testing.T) types.Logger {
	return logging.NewSlog(slogt.New(t, slogt.Text()))
}
