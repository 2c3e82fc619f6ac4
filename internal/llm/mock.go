package llm

import "context"

// mockGeneratedText is the canned output served in mock mode. It carries both
// finding and recommendation lines so demos exercise both extraction agents
// without network access.
const mockGeneratedText = `- [High] Identity: Multi-factor authentication is not enforced for administrative accounts.
- [High] Data Protection: Customer data stores are not encrypted at rest.
- [Medium] Operations: Security event logs are not centrally collected or retained.
- [Low] Governance: The information security policy has not been reviewed in the last twelve months.

1. Enforce multi-factor authentication for all privileged roles (P1, S, 2 weeks)
2. Enable encryption at rest with customer-managed keys (P1, M, 4 weeks)
3. Centralize security log collection into a SIEM workspace (P2, M, 6 weeks)
4. Establish an annual security policy review cycle (P3, S, 1 week)`

// MockClient returns fixed deterministic text regardless of input.
type MockClient struct{}

// Generate ignores its prompts and returns the canned text.
func (MockClient) Generate(ctx context.Context, system, user string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return mockGeneratedText, nil
}

var _ Client = MockClient{}
