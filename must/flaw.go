package must

import (
	"errors"
	"fmt"

	"github.com/xeptore/flaw/v8"
)

// BeFlaw returns err as a *flaw.Flaw. It panics if err is not one, as every
// unexpected error in this module is expected to be wrapped in a flaw.
func BeFlaw(err error) *flaw.Flaw {
	if f := new(flaw.Flaw); errors.As(err, &f) {
		return f
	}
	panic(fmt.Sprintf("expected error to be of type *flaw.Flaw, got error of type %T: %v", err, err))
}
