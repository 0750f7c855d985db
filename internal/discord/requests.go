package discord

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kittyscape/lootbot/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DropRequest is the parsed input of the /drop command.
type DropRequest struct {
	Item     string `validate:"required,min=1,max=100"`
	Quantity int64  `validate:"min=1,max=1000000"`
}

// ClogRequest is the parsed input of the /clog command.
type ClogRequest struct {
	Item string `validate:"required,min=1,max=100"`
}

// RemoveRequest is the parsed input of the /remove command.
type RemoveRequest struct {
	EventID int64 `validate:"required,min=1"`
}

// HandleRequest is the parsed input of /rsname link and unlink.
type HandleRequest struct {
	Handle string `validate:"required,min=1,max=32"`
}

// validateRequest wraps validator failures in ErrInvalidInput so the
// friendly-error mapping catches them.
func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
