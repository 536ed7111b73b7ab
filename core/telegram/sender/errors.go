package sender

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"
)

var tokenRe = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)

func is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
}

func isDial(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// classifyError buckets a send failure for the error_kind log field.
func classifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case isTimeout(err):
		return "timeout"
	case is[*net.DNSError](err):
		return "dns"
	case isDial(err):
		return "dial"
	case is[tls.AlertError](err):
		return "tls"
	}
	if status := httpStatusFromError(err); status >= 400 {
		return "http_" + strconv.Itoa(status/100) + "xx"
	}
	return "unknown"
}

// sanitizeErrorMessage hides bot tokens that leak into request URLs.
func sanitizeErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return tokenRe.ReplaceAllString(err.Error(), "bot<redacted>")
}

// httpStatusFromError returns the Bot API status of err. Errors telebot does
// not type are matched on a trailing "(code)" in the message.
func httpStatusFromError(err error) int {
	var apiErr *tele.Error
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Code
	case is[tele.FloodError](err):
		return http.StatusTooManyRequests
	case is[tele.GroupError](err):
		return http.StatusBadRequest
	}

	msg := strings.TrimSpace(err.Error())
	rest, ok := strings.CutSuffix(msg, ")")
	if !ok {
		return 0
	}
	open := strings.LastIndexByte(rest, '(')
	if open < 0 {
		return 0
	}
	code, convErr := strconv.Atoi(rest[open+1:])
	if convErr != nil {
		return 0
	}
	return code
}
