package application

import (
	"errors"

	"gambler/wager-engine/domain/entities"

	log "github.com/sirupsen/logrus"
)

// genericFailureMessage is shown for anything that is not the caller's fault
const genericFailureMessage = "Something went wrong. Please try again later."

// ErrUnknownAccount is returned by an AccountLookup that cannot resolve a name
var ErrUnknownAccount = errors.New("unknown account")

// rejected turns a failed command into a result. Validation errors carry
// their own user message; everything else is logged and hidden.
func rejected(command string, err error) CommandResult {
	if validationErr, ok := entities.IsValidationError(err); ok {
		log.WithFields(log.Fields{
			"command": command,
			"reason":  validationErr.Reason,
		}).Debug("Command rejected")
		return CommandResult{Message: validationErr.UserMessage}
	}

	fields := log.Fields{"command": command}
	var persistenceErr *entities.PersistenceError
	if errors.As(err, &persistenceErr) {
		fields["operation"] = persistenceErr.Op
	}
	log.WithFields(fields).WithError(err).Error("Command failed")
	return CommandResult{Message: genericFailureMessage}
}
