// Package metrics exposes the Prometheus counters of the auth flows.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultSuccess         = "success"
	ResultInvalid         = "invalid"
	ResultDuplicate       = "duplicate"
	ResultUnauthorized    = "unauthorized"
	ResultExpired         = "expired"
	ResultAlreadyVerified = "already_verified"
	ResultTimeout         = "timeout"
	ResultError           = "error"
)

// Metrics groups the counters. A nil *Metrics records nothing.
type Metrics struct {
	signups            *prometheus.CounterVec
	signins            *prometheus.CounterVec
	verificationEmails *prometheus.CounterVec
	verifications      *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
// Panics if registration fails (following prometheus convention).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		signups:            counter("gophauth_signup_total", "Signup attempts by result."),
		signins:            counter("gophauth_signin_total", "Signin attempts by result."),
		verificationEmails: counter("gophauth_verification_emails_total", "Verification emails by delivery result."),
		verifications:      counter("gophauth_verifications_total", "Verification link uses by result."),
	}
	reg.MustRegister(m.signups, m.signins, m.verificationEmails, m.verifications)
	return m
}

func counter(name, help string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, []string{"result"})
}

func (m *Metrics) Signup(result string) {
	if m != nil {
		m.signups.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) Signin(result string) {
	if m != nil {
		m.signins.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) VerificationEmail(result string) {
	if m != nil {
		m.verificationEmails.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) Verification(result string) {
	if m != nil {
		m.verifications.WithLabelValues(result).Inc()
	}
}
