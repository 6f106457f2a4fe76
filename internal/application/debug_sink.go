package application

import "github.com/sirupsen/logrus"

// LogDebugSink writes staged codes to the debug log.
type LogDebugSink struct {
	Logger *logrus.Logger
}

func (s LogDebugSink) OTPStaged(email, code string) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithFields(logrus.Fields{"email": email, "otp": code}).Debug("registration otp staged")
}
