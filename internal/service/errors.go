package service

import (
	"fmt"

	"github.com/shortsmith/shortsmith/internal/store/model"
)

type ErrJobNotFound struct {
	error
}

func NewErrJobNotFound(id string) *ErrJobNotFound {
	return &ErrJobNotFound{fmt.Errorf("job %s not found", id)}
}

type ErrInvalidJobState struct {
	error
}

func NewErrInvalidJobState(id string, status model.JobStatus, action string) *ErrInvalidJobState {
	return &ErrInvalidJobState{fmt.Errorf("cannot %s job %s in state %q", action, id, status)}
}

type ErrVideoNotFound struct {
	error
}

func NewErrVideoNotFound(ref string) *ErrVideoNotFound {
	return &ErrVideoNotFound{fmt.Errorf("video %s not found", ref)}
}

type ErrVideoAlreadyUploaded struct {
	error
}

func NewErrVideoAlreadyUploaded(id string) *ErrVideoAlreadyUploaded {
	return &ErrVideoAlreadyUploaded{fmt.Errorf("video %s is already uploaded", id)}
}

type ErrUploaderNotConfigured struct {
	error
}

func NewErrUploaderNotConfigured() *ErrUploaderNotConfigured {
	return &ErrUploaderNotConfigured{fmt.Errorf("video platform credentials are not configured")}
}

type ErrValidation struct {
	error
}

func NewErrValidation(message string) *ErrValidation {
	return &ErrValidation{fmt.Errorf("bad request: %s", message)}
}
