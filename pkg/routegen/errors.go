package routegen

import "errors"

var (
	// ErrEmptyNetwork means the kept component has no edges after filtering.
	ErrEmptyNetwork = errors.New("empty road network after filtering")

	// ErrNotEulerizable means degree balance could not be restored by the
	// defensive augmentation pass.
	ErrNotEulerizable = errors.New("graph cannot be made eulerian")

	// ErrDisconnected means no node has an outgoing edge.
	ErrDisconnected = errors.New("road network has no traversable node")

	ErrInvalidConfig = errors.New("invalid config")
)
