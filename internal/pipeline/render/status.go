// internal/pipeline/render/status.go
package render

import (
	"fmt"

	"racket-advisor/internal/common/errors"
)

// Status turns an action error into the text shown to the user.
func (r Renderer) Status(action Action, err error) string {
	if err == nil {
		return ""
	}
	text, ok := r.msgs.Actions[action]
	if !ok {
		text = r.msgs.Actions[ActionRecommend]
	}

	stdErr, ok := errors.AsStandard(err)
	if !ok {
		return fmt.Sprintf(text.Network, err.Error())
	}

	switch stdErr.Code {
	case errors.ErrCodeEmptySelection:
		return r.msgs.EmptySelection
	case errors.ErrCodeActionInFlight:
		return r.msgs.InFlight
	case errors.ErrCodeInvalidPayload:
		if action == ActionAdminCreate || action == ActionAdminUpdate {
			return r.msgs.NameBrandRequired
		}
		return fmt.Sprintf(r.msgs.InvalidPayload, stdErr.Details)
	case errors.ErrCodeHTTPError:
		return fmt.Sprintf(text.HTTP, stdErr.StatusCode, stdErr.Body)
	default:
		return fmt.Sprintf(text.Network, stdErr.Details)
	}
}

// AdminListed confirms a catalog listing.
func (r Renderer) AdminListed() string {
	return r.msgs.AdminListed
}

// RacketCreated confirms an insert; a blank name reads as "새 라켓".
func (r Renderer) RacketCreated(name string) string {
	if name == "" {
		name = r.msgs.NewRacket
	}
	return fmt.Sprintf(r.msgs.RacketCreated, name)
}

func (r Renderer) RacketUpdated(name string) string {
	if name == "" {
		name = r.msgs.NewRacket
	}
	return fmt.Sprintf(r.msgs.RacketUpdated, name)
}

func (r Renderer) RacketDeleted(id int64) string {
	return fmt.Sprintf(r.msgs.RacketDeleted, id)
}

// ResetDone prefers the server's own message.
func (r Renderer) ResetDone(serverMessage string) string {
	if serverMessage != "" {
		return serverMessage
	}
	return r.msgs.ResetDone
}
