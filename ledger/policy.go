package ledger

// AuthorizationPolicy gates every mutating operation. Both predicates are
// evaluated fresh on each invocation: the administrator or the paused flag
// may have changed in a prior operation of the same sequence, so nothing
// is cached here.
type AuthorizationPolicy struct {
	administrator func() string
	paused        func() bool
}

func NewAuthorizationPolicy(administrator func() string, paused func() bool) *AuthorizationPolicy {
	return &AuthorizationPolicy{
		administrator: administrator,
		paused:        paused,
	}
}

// IsAdministrator reports whether actor holds the administrator privilege.
func (p *AuthorizationPolicy) IsAdministrator(actor string) bool {
	return actor == p.administrator()
}

// IsPaused reports whether general transfers are currently blocked.
func (p *AuthorizationPolicy) IsPaused() bool {
	return p.paused()
}
