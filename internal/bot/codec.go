package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yourorg/sgbusbot/internal/models"
)

// Callback tokens are the only state carried across a button tap, so every
// button action round-trips through these three grammars:
//
//	stopCode:serviceNo:flag   show arrivals for one service at one stop
//	stopCode                  re-enter the services listing (5 numeric chars)
//	serviceNo|directionIndex  show the ordered route of a direction
//
// Grammar is inferred from content (":" beats the bare code, which beats
// "|"), which keeps tokens byte-compatible with buttons already in flight.
// Decoding resolves the ambiguity in exactly one place and returns a typed
// action.

// CallbackAction is one decoded callback token.
type CallbackAction interface {
	// Token encodes the action back to its wire form.
	Token() string
}

// StopServiceAction shows arrivals for one service at one stop. ResendMap
// requests the stop's location pin before the arrivals (used when the button
// came from a route listing rather than a stop lookup).
type StopServiceAction struct {
	StopCode  string
	ServiceNo string
	ResendMap bool
}

func (a StopServiceAction) Token() string {
	flag := "0"
	if a.ResendMap {
		flag = "1"
	}
	return a.StopCode + ":" + a.ServiceNo + ":" + flag
}

// StopAction re-enters the services listing for a stop.
type StopAction struct {
	StopCode string
}

func (a StopAction) Token() string {
	return a.StopCode
}

// RouteAction requests the ordered route of a service direction.
type RouteAction struct {
	ServiceNo string
	Direction int
}

func (a RouteAction) Token() string {
	return a.ServiceNo + "|" + strconv.Itoa(a.Direction)
}

// IsStopCode reports whether s is a valid bus stop code: exactly 5
// characters, all numeric.
func IsStopCode(s string) bool {
	if len(s) != 5 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DecodeToken parses a callback token into its action. Malformed tokens
// fail with ErrInvalidCallbackData.
func DecodeToken(token string) (CallbackAction, error) {
	switch {
	case strings.Contains(token, ":"):
		fields := strings.Split(token, ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidCallbackData, token)
		}
		var resend bool
		switch fields[2] {
		case "0":
			resend = false
		case "1":
			resend = true
		default:
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidCallbackData, token)
		}
		if fields[0] == "" || fields[1] == "" {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidCallbackData, token)
		}
		return StopServiceAction{StopCode: fields[0], ServiceNo: fields[1], ResendMap: resend}, nil

	case IsStopCode(token):
		return StopAction{StopCode: token}, nil

	case strings.Contains(token, "|"):
		fields := strings.Split(token, "|")
		if len(fields) != 2 || fields[0] == "" {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidCallbackData, token)
		}
		direction, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidCallbackData, token)
		}
		return RouteAction{ServiceNo: fields[0], Direction: direction}, nil

	default:
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidCallbackData, token)
	}
}
