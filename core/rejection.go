package core

import "strings"

type RejectionReason string

const (
	RejectionBadParameters           RejectionReason = "BAD_PARAMETERS"
	RejectionInternalRecipientError  RejectionReason = "INTERNAL_RECIPIENT_ERROR"
	RejectionMalformedMessage        RejectionReason = "MALFORMED_MESSAGE"
	RejectionMessageTypeNotSupported RejectionReason = "MESSAGE_TYPE_NOT_SUPPORTED"
	RejectionMethodNotSupported      RejectionReason = "METHOD_NOT_SUPPORTED"
	RejectionNotAuthenticated        RejectionReason = "NOT_AUTHENTICATED"
	RejectionNotAuthorized           RejectionReason = "NOT_AUTHORIZED"
	RejectionNotFound                RejectionReason = "NOT_FOUND"
	RejectionTemporarilyNotAvailable RejectionReason = "TEMPORARILY_NOT_AVAILABLE"
	RejectionTooManyResults          RejectionReason = "TOO_MANY_RESULTS"
	RejectionVersionNotSupported     RejectionReason = "VERSION_NOT_SUPPORTED"

	rejectionCodeURI = "https://w3id.org/idsa/code/"
)

const (
	MessageVersionNotSupported     = "Information model version not supported."
	MessageNoValidResourceID       = "No valid resource id found."
	MessageResponseNotConstructed  = "Response could not be constructed."
	MessageMessageTypeNotSupported = "Message type not supported."
	MessageMissingTypeTag          = "Message type could not be determined."
	MessageInvalidIssued           = "Message issue date could not be parsed."
)

var knownRejectionReasons = map[RejectionReason]struct{}{
	RejectionBadParameters:           {},
	RejectionInternalRecipientError:  {},
	RejectionMalformedMessage:        {},
	RejectionMessageTypeNotSupported: {},
	RejectionMethodNotSupported:      {},
	RejectionNotAuthenticated:        {},
	RejectionNotAuthorized:           {},
	RejectionNotFound:                {},
	RejectionTemporarilyNotAvailable: {},
	RejectionTooManyResults:          {},
	RejectionVersionNotSupported:     {},
}

func (r RejectionReason) String() string { return string(r) }

func (r RejectionReason) Valid() bool {
	_, ok := knownRejectionReasons[r]
	return ok
}

// URI returns the vocabulary identifier used on the wire.
func (r RejectionReason) URI() string {
	return rejectionCodeURI + string(r)
}

// ParseRejectionReason accepts both the bare code and its URI form.
func ParseRejectionReason(raw string) (RejectionReason, bool) {
	code := strings.TrimSpace(raw)
	code = strings.TrimPrefix(code, rejectionCodeURI)
	reason := RejectionReason(strings.ToUpper(code))
	if !reason.Valid() {
		return "", false
	}
	return reason, true
}

// NewRejection builds an ErrorResponse from a rejection header. When the
// header does not carry the reason yet it is stamped here so the peer can
// branch on it without reading the message.
func NewRejection(header ResponseHeader, reason RejectionReason, message string) *ErrorResponse {
	header.Type = TypeRejectionMessage
	header.RejectionReason = reason
	return &ErrorResponse{
		Header:  header,
		Reason:  reason,
		Message: strings.TrimSpace(message),
	}
}
