package services

import (
	"fmt"

	"github.com/imf-ops/gadget-api/internal/models"
	appErr "github.com/imf-ops/gadget-api/pkg/errors"
)

type lifecycleAction int

const (
	actionDeploy lifecycleAction = iota
	actionDecommission
	actionDestroy
)

func (a lifecycleAction) String() string {
	switch a {
	case actionDeploy:
		return "deploy"
	case actionDecommission:
		return "decommission"
	case actionDestroy:
		return "destroy"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

var (
	ErrAlreadyDestroyed = appErr.New(appErr.CodeConflict, "gadget is already destroyed")
	ErrGadgetDestroyed  = appErr.New(appErr.CodeConflict, "gadget is destroyed")
	ErrDecommissioned   = appErr.New(appErr.CodeConflict, "gadget is decommissioned")
)

// nextStatus returns the status a gadget in from reaches through action.
// Re-applying deploy or decommission to a gadget already in that status is
// accepted.
func nextStatus(from models.GadgetStatus, action lifecycleAction) (models.GadgetStatus, error) {
	switch action {
	case actionDeploy:
		switch from {
		case models.StatusAvailable, models.StatusDeployed:
			return models.StatusDeployed, nil
		case models.StatusDecommissioned:
			return "", ErrDecommissioned
		case models.StatusDestroyed:
			return "", ErrGadgetDestroyed
		}
	case actionDecommission:
		switch from {
		case models.StatusAvailable, models.StatusDeployed, models.StatusDecommissioned:
			return models.StatusDecommissioned, nil
		case models.StatusDestroyed:
			return "", ErrGadgetDestroyed
		}
	case actionDestroy:
		switch from {
		case models.StatusAvailable, models.StatusDeployed, models.StatusDecommissioned:
			return models.StatusDestroyed, nil
		case models.StatusDestroyed:
			return "", ErrAlreadyDestroyed
		}
	}
	return "", appErr.New(appErr.CodeInternal, fmt.Sprintf("no %s transition from status %q", action, from))
}
