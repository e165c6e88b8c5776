package spring

import "errors"

var (
	ErrInvalidMass       = errors.New("spring: mass must be positive")
	ErrUnknownNode       = errors.New("spring: unknown node")
	ErrSameEndpoint      = errors.New("spring: endpoints must be distinct nodes")
	ErrInvalidRestLength = errors.New("spring: rest length must be positive")
)
