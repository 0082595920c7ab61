package integration

import (
	"errors"

	"github.com/sir_venger/vidstream/pkg/vidclient"
)

func asStatus(err error, target **vidclient.StatusError) bool {
	return err != nil && errors.As(err, target)
}
