package model

import (
	"net"
	"strconv"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

const (
	MsgInvalidPayload = "invalid payload"
	MsgMissingData    = "missing data (address or payload)"
	MsgTimeout        = "printer not responding (timeout)"
	MsgSent           = "sent to printer"
)

// PrintRequest only exists once both the address and the payload are known.
type PrintRequest struct {
	Address string
	Port    int
	Payload []byte
}

func (r PrintRequest) Target() string {
	return net.JoinHostPort(r.Address, strconv.Itoa(r.Port))
}

type Outcome struct {
	Status  Status
	Message string
}

func Success() Outcome {
	return Outcome{Status: StatusSuccess, Message: MsgSent}
}

func Failure(msg string) Outcome {
	return Outcome{Status: StatusError, Message: msg}
}

func (o Outcome) Response() Response {
	return Response{Status: o.Status, Msg: o.Message}
}
