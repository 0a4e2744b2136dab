package domain

import "strconv"

// Action names the model is allowed to call. The strings are part of the
// prompt wire format and must not change.
const (
	ActionListMasters      = "get_available_masters"
	ActionListServices     = "get_services"
	ActionCheckAvail       = "check_availability"
	ActionCreateAppt       = "create_appointment"
	ActionUserAppointments = "user_appointments"

	// ActionPlainText marks model output without a function call block.
	ActionPlainText = "plain_text"
)

// Action is a single structured operation extracted from model output.
// Consumed once by the dispatcher, never stored.
type Action struct {
	Kind   string
	Params map[string]any

	// Text holds the original model output when Kind is ActionPlainText.
	Text string
}

// IsCall reports whether the action is a function call rather than plain text.
func (a Action) IsCall() bool {
	return a.Kind != ActionPlainText
}

// Str returns the named parameter as a string, tolerating absent keys and
// non-string JSON scalars.
func (a Action) Str(key string) string {
	v, ok := a.Params[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Int64 returns the named parameter as an int64. JSON numbers decode as
// float64; injected ids arrive as int64.
func (a Action) Int64(key string) int64 {
	switch v := a.Params[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return 0
}

// Availability is the outcome of a slot check. Not available is a normal
// result, not an error; Reason distinguishes hours from conflicts.
type Availability struct {
	Available bool
	Reason    string
	Master    string
}

const (
	ReasonFree         = "Свободно"
	ReasonBusy         = "Занято"
	ReasonOutsideHours = "Вне рабочего времени салона"
)

const (
	ReplyText         = "text"
	ReplyError        = "error"
	ReplyActionResult = "action_result"
)

// Reply is what the bot sends back for one inbound message.
type Reply struct {
	Kind   string
	Text   string
	Action string
	Result any
}
