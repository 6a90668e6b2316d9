package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/srijan008/MedGamma-Server/config"
	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("twilio credentials not configured")

const callTwiml = `<Response><Say voice="alice">Emergency Alert. The user has triggered an SOS in the MedGamma application. Please check your messages immediately.</Say></Response>`

// restAPI is the slice of the Twilio SDK the notifier uses; narrowed so tests
// can fake it.
type restAPI interface {
	CreateMessage(params *api.CreateMessageParams) (*api.ApiV2010Message, error)
	CreateCall(params *api.CreateCallParams) (*api.ApiV2010Call, error)
}

// TwilioNotifier sends the SOS SMS for every alert and additionally places a
// voice call when severity is critical.
type TwilioNotifier struct {
	api        restAPI
	fromNumber string
	toNumber   string
}

func NewTwilioNotifier(cfg config.TwilioConfig) *TwilioNotifier {
	n := &TwilioNotifier{
		fromNumber: cfg.FromNumber,
		toNumber:   cfg.ToNumber,
	}
	if cfg.AccountSID != "" && cfg.AuthToken != "" {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
		n.api = client.Api
	}
	return n
}

func (n *TwilioNotifier) configured() bool {
	return n.api != nil && n.fromNumber != "" && n.toNumber != ""
}

func (n *TwilioNotifier) Dispatch(ctx context.Context, alert *domain.Alert) error {
	if !n.configured() {
		return ErrNotConfigured
	}

	severity := alert.Severity
	if severity == domain.SeverityNone {
		severity = domain.SeverityCritical
	}

	var body strings.Builder
	fmt.Fprintf(&body, "%s SOS ALERT!\nUser has triggered an emergency alert via MedGamma.", strings.ToUpper(string(severity)))
	if alert.Location != "" {
		fmt.Fprintf(&body, "\nLast Known Location: %s", alert.Location)
	}

	smsParams := &api.CreateMessageParams{}
	smsParams.SetBody(body.String())
	smsParams.SetFrom(n.fromNumber)
	smsParams.SetTo(n.toNumber)

	msg, err := n.api.CreateMessage(smsParams)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	logging.L().Info("sos sms sent", zap.Stringp("sid", msg.Sid))

	// Voice call only for critical severity.
	if severity != domain.SeverityCritical {
		logging.L().Info("call skipped", zap.String("severity", string(severity)))
		return nil
	}

	callParams := &api.CreateCallParams{}
	callParams.SetTwiml(callTwiml)
	callParams.SetFrom(n.fromNumber)
	callParams.SetTo(n.toNumber)

	call, err := n.api.CreateCall(callParams)
	if err != nil {
		return fmt.Errorf("place call: %w", err)
	}
	logging.L().Info("sos call initiated", zap.Stringp("sid", call.Sid))
	return nil
}
