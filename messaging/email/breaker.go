package email

import "github.com/sony/gobreaker"

type guardedSender struct {
	next Sender
	cb   *gobreaker.CircuitBreaker
}

// Guard routes every send through cb. While the breaker is open sends
// fail with gobreaker.ErrOpenState without reaching the provider. A nil
// sender stays nil.
func Guard(next Sender, cb *gobreaker.CircuitBreaker) Sender {
	if next == nil {
		return nil
	}
	return &guardedSender{next: next, cb: cb}
}

func (s *guardedSender) SendTemplateEmail(recipientEmail string, template Template) (string, error) {
	id, err := s.cb.Execute(func() (any, error) {
		return s.next.SendTemplateEmail(recipientEmail, template)
	})
	if err != nil {
		return "", err
	}
	return id.(string), nil
}
