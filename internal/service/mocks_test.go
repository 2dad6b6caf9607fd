package service

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockEventSender struct {
	mock.Mock
}

func (m *MockEventSender) Send(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendEmail(to, subject, htmlBody string) error {
	args := m.Called(to, subject, htmlBody)
	return args.Error(0)
}
