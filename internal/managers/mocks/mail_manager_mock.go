package mocks

import "github.com/stretchr/testify/mock"

type MockMailManager struct {
	mock.Mock
}

func (m *MockMailManager) SendVerificationMail(email, username, code, link string) error {
	args := m.Called(email, username, code, link)
	return args.Error(0)
}
