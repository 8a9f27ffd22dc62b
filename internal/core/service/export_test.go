package service

import "time"

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) SetNumberGenerator(numbers func(time.Time) string) {
	s.numbers = numbers
}
