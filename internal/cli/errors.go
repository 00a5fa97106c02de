package cli

import (
	"errors"
	"fmt"

	"checktree/internal/store"
	"checktree/internal/tree"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// userError maps store and controller sentinels to the messages users see.
func userError(err error, treeID, value string) error {
	switch {
	case errors.Is(err, store.ErrTreeNotFound):
		return errNotFound("tree", treeID)
	case errors.Is(err, tree.ErrUnknownValue):
		return errNotFound("node", value)
	default:
		return err
	}
}
