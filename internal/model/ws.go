package model

import "encoding/json"

type PayloadEncoding string

const (
	EncodingLatin1 PayloadEncoding = "latin1"
	EncodingBase64 PayloadEncoding = "base64"
)

// --- WebSocket Messages ---

// Inbound keys are matched exactly; "PORT" or "Ip" are not aliases.
const (
	KeyIP          = "ip"
	KeyData        = "data"
	KeyEncoding    = "encoding"
	KeyPort        = "port"
	KeyPrinterPort = "printerPort" // legacy
	KeyPuerto      = "puerto"      // legacy
)

// PrintMessage is the inbound control-channel message. Port fields stay raw
// because clients send them as numbers or numeric strings.
type PrintMessage struct {
	IP          string
	Data        string
	Encoding    PayloadEncoding
	Port        json.RawMessage
	PrinterPort json.RawMessage
	Puerto      json.RawMessage
}

// Response is the single outbound message sent per PrintMessage.
type Response struct {
	Status Status `json:"status"`
	Msg    string `json:"msg"`
}
