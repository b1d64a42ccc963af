package mcp

import (
	"context"

	"github.com/custodia-labs/gsignin/internal/adapters/driving/bridge"
	"github.com/custodia-labs/gsignin/internal/core/domain"
)

// mockInvoker is a mock implementation of Invoker.
type mockInvoker struct {
	responses map[string]bridge.Response
	calls     []bridge.Call
}

func (m *mockInvoker) Invoke(_ context.Context, call bridge.Call) bridge.Response {
	m.calls = append(m.calls, call)
	resp := m.responses[call.Method]
	resp.CallID = call.ID
	return resp
}

// mockAcquirer is a mock implementation of driving.TokenAcquirer.
type mockAcquirer struct {
	record *domain.TokenRecord
	err    error
	got    domain.AccountHandle
}

func (m *mockAcquirer) Acquire(_ context.Context, account domain.AccountHandle) (*domain.TokenRecord, error) {
	m.got = account
	return m.record, m.err
}

// mockAccountService is a mock implementation of driving.AccountService.
type mockAccountService struct {
	accounts []domain.StoredAccount
	handle   domain.AccountHandle
	err      error
}

func (m *mockAccountService) List(_ context.Context) ([]domain.StoredAccount, error) {
	return m.accounts, m.err
}

func (m *mockAccountService) Current(_ context.Context) (*domain.StoredAccount, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.accounts {
		if m.accounts[i].SignedIn {
			return &m.accounts[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockAccountService) Resolve(_ context.Context, email string) (domain.AccountHandle, error) {
	if m.err != nil {
		return domain.AccountHandle{}, m.err
	}
	if email != "" {
		return domain.NewGoogleAccountHandle(email), nil
	}
	return m.handle, nil
}

func (m *mockAccountService) Forget(_ context.Context, _ string) error {
	return m.err
}
