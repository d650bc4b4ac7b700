package sale

import "errors"

// Setup validation.
var (
	ErrInvalidUnitPrice      = errors.New("InvalidUnitPrice")
	ErrInvalidMaxTokens      = errors.New("InvalidMaxTokens")
	ErrMissingPaymentToken   = errors.New("MissingPaymentToken")
	ErrMissingCollectionCode = errors.New("MissingCollectionCode")
	ErrInvalidExtension      = errors.New("InvalidExtension")
	ErrAlreadyInitialized    = errors.New("AlreadyInitialized")
)

// Linkage protocol.
var (
	ErrAlreadyLinked      = errors.New("Cw721AlreadyLinked")
	ErrInvalidCorrelation = errors.New("InvalidTokenReplyId")
	ErrDeploymentFailed   = errors.New("DeploymentFailed")
	ErrMalformedReply     = errors.New("MalformedReply")
)

// Minting.
var (
	ErrUninitialized             = errors.New("Uninitialized")
	ErrSoldOut                   = errors.New("SoldOut")
	ErrUnauthorizedTokenContract = errors.New("UnauthorizedTokenContract")
	ErrWrongPaymentAmount        = errors.New("WrongPaymentAmount")
)

// ErrCorruptState marks a stored record that no longer decodes or breaks an invariant.
var ErrCorruptState = errors.New("CorruptState")
