package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	// Recognition request failures, in the order a call can hit them.
	ReasonSTTEncode  ReasonCode = "stt_encode"
	ReasonSTTConnect ReasonCode = "stt_connect"
	ReasonSTTTimeout ReasonCode = "stt_timeout"
	ReasonSTTStatus  ReasonCode = "stt_status"
	ReasonSTTDecode  ReasonCode = "stt_decode"

	ReasonSTTRateLimit ReasonCode = "stt_rate_limit"
)
