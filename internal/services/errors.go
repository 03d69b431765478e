package services

import (
	"errors"

	"github.com/Riboost-Studio/perfect-menu-print-bridge/internal/model"
)

// Control channel errors
var (
	// ErrInvalidPayload is returned when a message is not a well-formed print request
	ErrInvalidPayload = errors.New(model.MsgInvalidPayload)

	// ErrMissingData is returned when a message lacks the printer address or the data
	ErrMissingData = errors.New(model.MsgMissingData)
)

// Printer errors
var (
	// ErrPrinterTimeout is returned when a printer does not accept or drain a job in time
	ErrPrinterTimeout = errors.New("printer not responding")
)

// Listener errors
var (
	// ErrAddressInUse is returned when the control channel port is taken
	ErrAddressInUse = errors.New("address already in use")
)
